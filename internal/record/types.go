// Package record holds the call and department lists fetched from the
// backend, each capped at MaxRecords entries.
package record

// MaxRecords is the capacity of each record list.
const MaxRecords = 50

// Kind selects one of the two record lists.
type Kind int

const (
	KindCalls Kind = iota
	KindDepartments
)

func (k Kind) String() string {
	switch k {
	case KindCalls:
		return "calls"
	case KindDepartments:
		return "departments"
	default:
		return "unknown"
	}
}

// CallRecord is one call type configured on the management console.
type CallRecord struct {
	Status      string `json:"status"`
	Description string `json:"mancalldesc"`
	Recipient   string `json:"mancallto"`
}

// Label is the text shown for the record in a list.
func (r CallRecord) Label() string { return r.Description }

// DeptRecord is one department configured on the management console.
type DeptRecord struct {
	Name string `json:"deptname"`
	ID   int    `json:"deptid"`
}

// Label is the text shown for the record in a list.
func (r DeptRecord) Label() string { return r.Name }

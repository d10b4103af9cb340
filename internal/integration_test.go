package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"andon-console/config"
	"andon-console/internal/api"
	"andon-console/internal/backend"
	"andon-console/internal/console"
	"andon-console/internal/db"
	"andon-console/internal/menu"
	"andon-console/internal/panel"
	"andon-console/internal/paginate"
	"andon-console/internal/record"
	"andon-console/internal/selection"
	"andon-console/internal/store"
)

type bootedConsole struct {
	runner *console.Runner
	router *gin.Engine
	panel  api.Panel
}

func boot(t *testing.T, dbCfg *config.DatabaseConfig, backendURL string) *bootedConsole {
	t.Helper()
	gormDB, err := db.Init(dbCfg)
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	appStore := store.NewGormStore(gormDB)
	records := record.NewStore(backend.NewClient(&config.BackendConfig{
		BaseURL:         backendURL,
		CallsPath:       "/getCalls",
		DepartmentsPath: "/getUsers",
		Timeout:         2 * time.Second,
		MaxBodyBytes:    64 << 10,
	}, nil))

	devices := api.Panel{
		Screen:   panel.NewScreen(),
		Buttons:  panel.NewButtonQueue(8),
		Switches: &panel.CallSwitches{},
		Lamps:    &panel.Lamps{},
	}
	ctl := menu.New(records, selection.NewPersister(appStore), devices.Screen, menu.Options{
		Column:     5,
		WindowSize: paginate.WindowSize,
		Mode:       paginate.Paged,
	})
	ctl.Boot(context.Background())

	runner := console.New(console.Deps{
		Controller: ctl,
		Records:    records,
		Display:    devices.Screen,
		Input:      devices.Buttons,
		Backlight:  devices.Screen,
		Switches:   devices.Switches,
		Lamps:      devices.Lamps,
	}, console.Options{ConsoleID: 1, IdlePolls: 100})

	handler := api.NewHandler(appStore, &webpush.Options{}, runner, devices)
	return &bootedConsole{
		runner: runner,
		router: api.NewRouter(handler, &config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 1}),
		panel:  devices,
	}
}

// press sends a button over HTTP and runs one poll cycle.
func (b *bootedConsole) press(t *testing.T, button string) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/buttons/"+button, nil)
	b.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	b.runner.Tick(context.Background())
}

// TestSelectionSurvivesReboot configures a call and a department through the
// HTTP panel, then boots a fresh console on the same database.
func TestSelectionSurvivesReboot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/getCalls":
			w.Write([]byte(`[
				{"status":"Red","mancalldesc":"Line stop","mancallto":"Alice"},
				{"status":"Yellow","mancalldesc":"Material low","mancallto":"Bob"}
			]`))
		case "/getUsers":
			w.Write([]byte(`[{"deptname":"Assembly","deptid":4},{"deptname":"Paint","deptid":9}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer backendSrv.Close()

	dbCfg := &config.DatabaseConfig{
		DSN:          "file:" + filepath.Join(t.TempDir(), "andon.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	}

	first := boot(t, dbCfg, backendSrv.URL)
	first.press(t, "select") // wake
	first.press(t, "select") // settings
	first.press(t, "select") // choose calls
	first.press(t, "next")   // call 2
	first.press(t, "select")
	first.press(t, "next") // "Material low"
	first.press(t, "select")
	first.press(t, "next") // set department
	first.press(t, "select")
	first.press(t, "select") // "Assembly"

	snap := first.runner.Snapshot()
	require.Equal(t, menu.Settings, snap.State)
	assert.Equal(t, selection.Some("Material low"), snap.Calls[1].Description)
	assert.Equal(t, selection.Some("4"), snap.Department.ID)

	second := boot(t, dbCfg, backendSrv.URL)
	rebooted := second.runner.Snapshot()
	assert.False(t, rebooted.Awake)
	assert.Equal(t, snap.Calls, rebooted.Calls)
	assert.Equal(t, snap.Department, rebooted.Department)

	second.press(t, "select")
	assert.Equal(t, "Do the initial Setup..", second.panel.Screen.Snapshot()[0].Text, "call 1 and 3 are still unset")
}

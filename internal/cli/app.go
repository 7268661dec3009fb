package cli

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/receiptscan/internal/config"
	"github.com/dmitrijs2005/receiptscan/internal/credential"
	"github.com/dmitrijs2005/receiptscan/internal/filex"
	"github.com/dmitrijs2005/receiptscan/internal/gqlclient"
	"github.com/dmitrijs2005/receiptscan/internal/logging"
	"github.com/dmitrijs2005/receiptscan/internal/receipts"
	"github.com/dmitrijs2005/receiptscan/internal/session"
	"github.com/dmitrijs2005/receiptscan/internal/upload"
)

const appDirName = "receiptscan"

// App wires the application core together for interactive use.
type App struct {
	config   *config.Config
	log      logging.Logger
	store    credential.Store
	client   gqlclient.Client
	session  *session.Manager
	pipeline *upload.Pipeline
	lister   *receipts.ListController

	reader          *bufio.Reader
	listUpdates     chan receipts.Snapshot
	artifactUpdates chan upload.Artifact
}

// NewApp builds the full component graph from configuration: state
// directory, credential store, dispatcher, session manager, upload pipeline
// and listing controller.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	stateDir := cfg.StateDir
	var err error
	if stateDir == "" {
		stateDir, err = filex.EnsureUserDir(appDirName)
	} else {
		stateDir, err = filex.EnsureDir(stateDir)
	}
	if err != nil {
		return nil, err
	}

	store, err := credential.NewBoltStore(filepath.Join(stateDir, "session.db"))
	if err != nil {
		return nil, err
	}

	apiClient := gqlclient.NewHTTPClient(cfg.EndpointURL, store, cfg.RequestTimeout)

	a := &App{
		config:          cfg,
		log:             log,
		store:           store,
		client:          apiClient,
		session:         session.NewManager(store, apiClient, log),
		pipeline:        upload.NewPipeline(apiClient, log),
		lister:          receipts.NewListController(apiClient, log),
		reader:          bufio.NewReader(os.Stdin),
		listUpdates:     make(chan receipts.Snapshot, 32),
		artifactUpdates: make(chan upload.Artifact, 32),
	}

	a.lister.SetOnChange(func(s receipts.Snapshot) { sendLatest(a.listUpdates, s) })
	a.pipeline.SetOnChange(func(art upload.Artifact) { sendLatest(a.artifactUpdates, art) })

	return a, nil
}

// Run resolves the stored session and enters the REPL. It blocks until the
// user exits, then releases resources.
func (a *App) Run(ctx context.Context) error {
	if err := a.session.Init(ctx); err != nil {
		return err
	}

	runREPL(ctx, a, a.statusLine, bufio.NewScanner(os.Stdin))

	return a.store.Close()
}

func (a *App) isLoggedIn() bool {
	status, _ := a.session.Snapshot()
	return status == session.StatusAuthenticated
}

func (a *App) statusLine() string {
	status, user := a.session.Snapshot()
	if status == session.StatusAuthenticated && user != nil {
		return user.Email
	}
	return string(status)
}

// sendLatest delivers without ever blocking the sender: when the channel is
// full the oldest update is dropped in favor of the newest.
func sendLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// waitList blocks until the listing settles (or the request deadline
// passes) and returns the resulting snapshot.
func (a *App) waitList(ctx context.Context) receipts.Snapshot {
	deadline := time.After(a.config.RequestTimeout + time.Second)
	for {
		select {
		case s := <-a.listUpdates:
			if !s.Loading {
				return s
			}
		case <-deadline:
			return a.lister.Snapshot()
		case <-ctx.Done():
			return a.lister.Snapshot()
		}
	}
}

// waitArtifact blocks until the upload identified by id reaches a terminal
// state. Updates for other artifacts, such as a late result of an earlier
// scan still sitting in the buffer, are discarded.
func (a *App) waitArtifact(ctx context.Context, id string) upload.Artifact {
	deadline := time.After(a.config.RequestTimeout + time.Second)
	for {
		select {
		case art := <-a.artifactUpdates:
			if art.ID != id {
				continue
			}
			if art.State == upload.StateDone || art.State == upload.StateFailed {
				return art
			}
		case <-deadline:
			return a.pipeline.Snapshot()
		case <-ctx.Done():
			return a.pipeline.Snapshot()
		}
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/embauco/internal/client/models"
	"github.com/dmitrijs2005/embauco/internal/client/services"
	"github.com/dmitrijs2005/embauco/internal/client/session"
	"github.com/dmitrijs2005/embauco/internal/logging"
)

const expiredNotice = "Session expired, please log in again."

// Session is the part of the session manager the CLI reads.
type Session interface {
	Phase() session.Phase
	Identity() (*models.Identity, bool)
	Authenticated() bool
	Subscribe(fn func(session.Transition)) (func(), error)
	Wait()
}

// savedAtReader is implemented by stores that remember when the credential
// was written.
type savedAtReader interface {
	SavedAt(ctx context.Context) (time.Time, bool, error)
}

// Deps groups everything the App needs. Store is optional.
type Deps struct {
	Session   Session
	Store     session.Store
	Auth      services.AuthService
	Expenses  services.ExpenseService
	Dashboard services.DashboardService
	Charts    services.ChartService
	Logger    logging.Logger
}

type App struct {
	session   Session
	store     session.Store
	auth      services.AuthService
	expenses  services.ExpenseService
	dashboard services.DashboardService
	charts    services.ChartService
	log       logging.Logger

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	expired atomic.Bool
}

func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		session:   d.Session,
		store:     d.Store,
		auth:      d.Auth,
		expenses:  d.Expenses,
		dashboard: d.Dashboard,
		charts:    d.Charts,
		log:       logger.With("component", "cli"),
		reader:    bufio.NewReader(in),
		out:       out,
		now:       time.Now,
	}
}

// Run prints a greeting and serves commands until exit, end of input or
// cancellation of ctx.
func (a *App) Run(ctx context.Context) error {
	unsubscribe, err := a.session.Subscribe(a.onTransition)
	if err != nil {
		return err
	}
	defer unsubscribe()

	fmt.Fprintln(a.out, "Welcome to El Embauco CLI (type 'help' for commands)")
	if id, ok := a.session.Identity(); ok {
		fmt.Fprintf(a.out, "Resumed session for %s\n", id.Label())
	}

	runREPL(ctx, a, a.prompt, a.reader)
	return nil
}

func (a *App) onTransition(t session.Transition) {
	if t.Reason == session.ReasonExpired {
		a.expired.Store(true)
	}
}

// settle waits for pending phase notifications and reports a forced logout.
func (a *App) settle() {
	a.session.Wait()
	if a.expired.Swap(false) {
		fmt.Fprintln(a.out, expiredNotice)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

func (a *App) prompt() string {
	if id, ok := a.session.Identity(); ok && a.session.Authenticated() {
		return "(" + id.Label() + ")"
	}
	return "(" + a.session.Phase().String() + ")"
}

package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cafe/internal/domain"
	"cafe/internal/dto"
	"cafe/internal/session"
)

type Console interface {
	Prompt(msg string) (string, error)
	Display(lines ...string)
}

type Accounts interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) error
	Login(ctx context.Context, sess *session.Session, login, password string) error
	Logout(sess *session.Session)
}

type Profiles interface {
	UpdateProfile(ctx context.Context, sess *session.Session, req dto.UpdateProfileRequest) (*domain.User, error)
}

type Catalog interface {
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	FindByName(ctx context.Context, name string) ([]domain.MenuItem, error)
	FindByType(ctx context.Context, itemType string) ([]domain.MenuItem, error)
	Add(ctx context.Context, sess *session.Session, item domain.MenuItem) error
	Update(ctx context.Context, sess *session.Session, name string, price decimal.Decimal, description, imageURL string) error
	Delete(ctx context.Context, sess *session.Session, name string) error
}

type Orders interface {
	GetOrder(ctx context.Context, sess *session.Session, orderID uint) (*dto.OrderDetails, error)
	UpdateStatus(ctx context.Context, sess *session.Session, req dto.UpdateStatusRequest) (int64, error)
	MarkPaid(ctx context.Context, sess *session.Session, orderID uint) error
	ListRecentOrders(ctx context.Context, sess *session.Session) ([]domain.Order, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error)
}

type Dependencies struct {
	Console  Console
	Accounts Accounts
	Profiles Profiles
	Catalog  Catalog
	Orders   Orders
	Placer   OrderPlacer
	Logger   *zap.Logger
	// Timeout bounds every single store operation.
	Timeout time.Duration
}

// App drives the interactive menus for one session.
type App struct {
	console  Console
	accounts Accounts
	profiles Profiles
	catalog  Catalog
	orders   Orders
	placer   OrderPlacer
	logger   *zap.Logger
	timeout  time.Duration
	sess     *session.Session
}

const defaultTimeout = 5 * time.Second

func New(deps Dependencies) *App {
	sess := session.New()
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &App{
		console:  deps.Console,
		accounts: deps.Accounts,
		profiles: deps.Profiles,
		catalog:  deps.Catalog,
		orders:   deps.Orders,
		placer:   deps.Placer,
		logger:   deps.Logger.With(zap.String("traceId", sess.ID())),
		timeout:  timeout,
		sess:     sess,
	}
}

func (a *App) Session() *session.Session {
	return a.sess
}

// Run shows the main menu until the user exits or input ends. Only console
// failures are returned; operation errors are reported and the menu resumes.
func (a *App) Run(ctx context.Context) error {
	a.greeting()
	err := a.mainMenu(ctx)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if a.sess.IsAuthenticated() {
		a.accounts.Logout(a.sess)
	}
	a.console.Display("", "Bye !")
	return err
}

func (a *App) greeting() {
	a.console.Display(
		"",
		"*******************************************************",
		"              User Interface",
		"*******************************************************",
		"",
	)
}

func (a *App) mainMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.console.Display(
			"MAIN MENU",
			"---------",
			"1. Create user",
			"2. Log in",
			"9. < EXIT",
		)

		choice, err := a.readChoice()
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = a.createUser(ctx)
		case 2:
			var ok bool
			ok, err = a.login(ctx)
			if err == nil && ok {
				err = a.userMenu(ctx)
			}
		case 9:
			return nil
		default:
			a.console.Display("Unrecognized choice!")
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) userMenu(ctx context.Context) error {
	for a.sess.IsAuthenticated() {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.console.Display(
			"MAIN MENU",
			"---------",
			"1. Goto Menu",
			"2. Update Profile",
			"3. Place an Order",
			"4. Update an Order",
			"5. View an Order",
			"6. Recent Orders",
			"7. Mark an Order Paid (managers only)",
			".........................",
			"9. Log out",
		)

		choice, err := a.readChoice()
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = a.restaurantMenu(ctx)
		case 2:
			err = a.updateProfile(ctx)
		case 3:
			err = a.placeOrder(ctx)
		case 4:
			err = a.updateOrder(ctx)
		case 5:
			err = a.viewOrder(ctx)
		case 6:
			err = a.recentOrders(ctx)
		case 7:
			err = a.markPaid(ctx)
		case 9:
			a.accounts.Logout(a.sess)
			a.console.Display("Logged out.")
		default:
			a.console.Display("Unrecognized choice!")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) restaurantMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.console.Display(
			"RESTAURANT MENU",
			"---------",
			"1. Search by itemName",
			"2. Search by type",
			"3. Add item (managers only)",
			"4. Delete item (managers only)",
			"5. Update item (managers only)",
			"6. Browse full menu",
			".........................",
			"9. Exit menu",
		)

		choice, err := a.readChoice()
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = a.searchByName(ctx)
		case 2:
			err = a.searchByType(ctx)
		case 3:
			err = a.addItem(ctx)
		case 4:
			err = a.deleteItem(ctx)
		case 5:
			err = a.updateItem(ctx)
		case 6:
			err = a.browseMenu(ctx)
		case 9:
			return nil
		default:
			a.console.Display("Unrecognized choice!")
		}
		if err != nil {
			return err
		}
	}
}

// readChoice re-prompts until a number is entered.
func (a *App) readChoice() (int, error) {
	for {
		line, err := a.console.Prompt("Please make your choice: ")
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(line)
		if err == nil {
			return choice, nil
		}
		a.console.Display("Your input is invalid!")
	}
}

// call runs one store operation under the per-operation timeout.
func (a *App) call(ctx context.Context, op func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return op(opCtx)
}

func (a *App) report(action string, err error) {
	a.logger.Warn(action+" failed", zap.String("login", a.sess.Login()), zap.Error(err))
	a.console.Display(describeError(err)...)
}

// prompts asks each question in turn and stops at the first console error.
func (a *App) prompts(questions ...string) ([]string, error) {
	answers := make([]string, 0, len(questions))
	for _, q := range questions {
		answer, err := a.console.Prompt(q)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

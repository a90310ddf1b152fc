// Package ui реализует терминальный интерфейс клиента магазина.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-client/internal/api"
	"github.com/mmeshcher/storefront-client/internal/cart"
	"github.com/mmeshcher/storefront-client/internal/dashboard"
	"github.com/mmeshcher/storefront-client/internal/invoice"
	"github.com/mmeshcher/storefront-client/internal/model"
	"github.com/mmeshcher/storefront-client/internal/notification"
	"github.com/mmeshcher/storefront-client/internal/session"
)

// Params содержит зависимости терминального приложения.
type Params struct {
	Client     *api.Client
	Sessions   *session.Manager
	Reconciler *notification.Reconciler
	Refresher  *dashboard.Refresher
	Logger     *zap.SugaredLogger
	Input      io.Reader
	Output     io.Writer
	InvoiceDir string
}

// App читает команды из входного потока и выполняет их по одной.
// Одновременно с циклом команд работает фоновое обновление панели.
type App struct {
	client     *api.Client
	sessions   *session.Manager
	reconciler *notification.Reconciler
	refresher  *dashboard.Refresher
	logger     *zap.SugaredLogger
	out        io.Writer
	invoiceDir string

	scanner *bufio.Scanner
	cart    *cart.Ledger

	stopRefresh context.CancelFunc
}

// NewApp создаёт терминальное приложение.
func NewApp(p Params) *App {
	return &App{
		client:     p.Client,
		sessions:   p.Sessions,
		reconciler: p.Reconciler,
		refresher:  p.Refresher,
		logger:     p.Logger,
		out:        p.Output,
		invoiceDir: p.InvoiceDir,
		scanner:    bufio.NewScanner(p.Input),
		cart:       cart.NewLedger(),
	}
}

// Run восстанавливает сессию и выполняет цикл команд до команды quit,
// конца входного потока или отмены контекста.
func (a *App) Run(ctx context.Context) error {
	defer a.stopRefreshLoop()

	if s, ok := a.sessions.Load(); ok {
		a.client.SetToken(s.Token)
		a.startRefreshLoop(ctx)
		a.printf("Signed in as %s", s.User.Username)
	} else {
		a.printf("Not signed in. Use the login command.")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		a.prompt()
		line, ok := a.readLine()
		if !ok {
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		a.dispatch(ctx, fields)
	}
}

func (a *App) dispatch(ctx context.Context, fields []string) {
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		a.printHelp()
	case "login":
		a.login(ctx)
	case "logout":
		a.logout()
	case "summary":
		a.summary()
	case "notifications":
		a.notifications()
	case "read":
		a.markRead(args)
	case "inventory":
		a.inventory(ctx)
	case "sell":
		a.sell(ctx, args)
	case "cart":
		a.showCart()
	case "qty":
		a.updateQty(args)
	case "remove":
		a.removeItem(args)
	case "clear":
		a.cart.Clear()
		a.printf("Cart cleared")
	case "stock":
		a.stockIncrease(ctx, args)
	case "add":
		a.scanUpsert(ctx, args)
	case "checkout":
		a.checkout(ctx, args)
	default:
		a.printf("Unknown command %q. Type help for the list.", cmd)
	}
}

func (a *App) printHelp() {
	a.printf(strings.TrimSpace(`
login                    sign in
logout                   sign out
summary                  show dashboard totals
notifications            list low stock notifications
read N                   mark notification N as read
inventory                list inventory items
sell CODE                add scanned item to the cart
cart                     show cart contents
qty CODE N               set quantity for a cart line
remove CODE              remove a cart line
clear                    empty the cart
stock CODE QTY           increase stock for an existing code
add CODE                 register a new product for a code
checkout [NAME [PHONE]]  finalize the sale and write an invoice
quit                     exit
`))
}

func (a *App) login(ctx context.Context) {
	a.print("username: ")
	username, ok := a.readLine()
	if !ok {
		return
	}
	a.print("password: ")
	password, ok := a.readLine()
	if !ok {
		return
	}

	res, err := a.client.Login(ctx, strings.TrimSpace(username), strings.TrimSpace(password))
	if err != nil {
		a.printf("Login failed: %v", err)
		return
	}

	a.client.SetToken(res.AccessToken)
	err = a.sessions.SignIn(model.Session{
		Token: res.AccessToken,
		User: model.User{
			ID:       res.UserID,
			Username: res.Username,
			FullName: res.FullName,
		},
	})
	if err != nil {
		a.logWarn("save session", err)
	}

	a.startRefreshLoop(ctx)
	a.printf("Signed in as %s", res.Username)
}

func (a *App) logout() {
	a.stopRefreshLoop()
	a.client.ClearToken()
	if err := a.sessions.SignOut(); err != nil {
		a.logWarn("remove session", err)
	}
	a.printf("Signed out")
}

func (a *App) summary() {
	s := a.refresher.Summary()
	if s == nil {
		a.printf("No dashboard data yet")
		return
	}
	a.printf("Invested:   %s", money(s.InvestedAmount))
	a.printf("Gross:      %s", money(s.GrossSales))
	a.printf("Cost:       %s", money(s.CostOfGoodsSold))
	a.printf("Profit:     %s", money(s.Profit))
}

func (a *App) notifications() {
	list := a.reconciler.Notifications()
	if len(list) == 0 {
		a.printf("No low stock notifications")
		return
	}
	for i, n := range list {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		a.printf("%s %2d. %s", mark, i+1, n.Message)
	}
	a.printf("%d unread", a.reconciler.UnreadCount())
}

func (a *App) markRead(args []string) {
	if len(args) != 1 {
		a.printf("Usage: read N")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		a.printf("Usage: read N")
		return
	}

	list := a.reconciler.Notifications()
	if idx < 1 || idx > len(list) {
		a.printf("No notification %d", idx)
		return
	}
	a.reconciler.MarkRead(list[idx-1].ID)
	a.printf("Marked as read")
}

func (a *App) inventory(ctx context.Context) {
	items, err := a.client.InventoryItems(ctx)
	if err != nil {
		a.printf("Failed to load inventory: %v", err)
		return
	}
	if len(items) == 0 {
		a.printf("Inventory is empty")
		return
	}
	for _, it := range items {
		code := "-"
		if it.PrimaryCode != nil {
			code = *it.PrimaryCode
		}
		a.printf("%-14s %-24s qty %3d  %s", code, it.ProductName, it.QtyOnHand, money(it.SalePrice))
	}
}

func (a *App) sell(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("Usage: sell CODE")
		return
	}

	v, err := a.client.VariantByCode(ctx, args[0])
	if err != nil {
		if api.IsNotFound(err) {
			a.printf("Code not found. Use add %s to register it.", args[0])
			return
		}
		a.printf("Lookup failed: %v", err)
		return
	}
	if v.QtyOnHand <= 0 {
		a.printf("%s is out of stock", v.ProductName)
		return
	}

	a.cart.AddOrIncrement(model.Product{
		Code:           v.Code,
		ProductName:    v.ProductName,
		SalePrice:      v.SalePrice,
		AvailableStock: v.QtyOnHand,
	})
	a.printf("%s added. Cart: %d line(s), total %s", v.ProductName, a.cart.Len(), money(a.cart.Total()))
}

func (a *App) showCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		a.printf("Cart is empty")
		return
	}
	for _, it := range items {
		a.printf("%-14s %-24s %d x %s = %s", it.Code, it.ProductName, it.Qty, money(it.SalePrice), money(it.LineTotal))
	}
	a.printf("Total: %s", money(a.cart.Total()))
}

func (a *App) updateQty(args []string) {
	if len(args) != 2 {
		a.printf("Usage: qty CODE N")
		return
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		a.printf("Usage: qty CODE N")
		return
	}
	a.cart.UpdateQty(args[0], qty)
	a.showCart()
}

func (a *App) removeItem(args []string) {
	if len(args) != 1 {
		a.printf("Usage: remove CODE")
		return
	}
	a.cart.RemoveItem(args[0])
	a.showCart()
}

func (a *App) stockIncrease(ctx context.Context, args []string) {
	if len(args) != 2 {
		a.printf("Usage: stock CODE QTY")
		return
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil || qty <= 0 {
		a.printf("Quantity must be a positive number")
		return
	}

	res, err := a.client.ScanIncrease(ctx, api.StockIncreaseRequest{Code: args[0], Qty: qty})
	if err != nil {
		if api.IsNotFound(err) {
			a.printf("Code not found. Use add %s to register it.", args[0])
			return
		}
		a.printf("Stock update failed: %v", err)
		return
	}
	if res.UpdatedStock != nil {
		a.printf("Stock updated: %d on hand", *res.UpdatedStock)
	} else {
		a.printf("Stock updated")
	}
}

func (a *App) scanUpsert(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("Usage: add CODE")
		return
	}

	req := api.ScanUpsertRequest{Code: args[0]}

	var ok bool
	if req.ProductName, ok = a.ask("product name: "); !ok {
		return
	}
	if req.Brand, ok = a.ask("brand: "); !ok {
		return
	}
	if req.Category, ok = a.ask("category: "); !ok {
		return
	}

	purchase, ok := a.askDecimal("purchase price: ")
	if !ok {
		return
	}
	sale, ok := a.askDecimal("sale price: ")
	if !ok {
		return
	}
	qty, ok := a.askInt("initial quantity: ")
	if !ok {
		return
	}
	req.PurchasePrice = purchase
	req.SalePrice = sale
	req.InitialQty = qty

	res, err := a.client.ScanUpsert(ctx, req)
	if err != nil {
		a.printf("Failed to register product: %v", err)
		return
	}
	if !res.Created {
		a.printf("Code already registered: %s", res.Message)
		return
	}
	a.printf("Registered %s with %d on hand", req.ProductName, req.InitialQty)
}

func (a *App) checkout(ctx context.Context, args []string) {
	if a.cart.Len() == 0 {
		a.printf("Cart is empty")
		return
	}

	req := api.CheckoutRequest{}
	if len(args) > 0 {
		req.CustomerName = &args[0]
	}
	if len(args) > 1 {
		req.CustomerPhone = &args[1]
	}
	for _, it := range a.cart.Items() {
		req.Items = append(req.Items, api.SaleItem{Code: it.Code, Qty: it.Qty})
	}

	res, err := a.client.Checkout(ctx, req)
	if err != nil {
		a.printf("Checkout failed: %v", err)
		return
	}

	data := invoice.Data{
		TicketNumber: res.TicketNumber,
		Date:         time.Now(),
		Items:        a.cart.Items(),
		Total:        a.cart.Total(),
	}
	if req.CustomerName != nil {
		data.CustomerName = *req.CustomerName
	}

	path, err := invoice.WriteFile(a.invoiceDir, data)
	if err != nil {
		a.logWarn("write invoice", err)
		a.printf("Sale #%d confirmed, total %s (invoice not written)", res.TicketNumber, money(res.Total))
	} else {
		a.printf("Sale #%d confirmed, total %s. Invoice: %s", res.TicketNumber, money(res.Total), path)
	}

	a.cart.Clear()
}

func (a *App) startRefreshLoop(ctx context.Context) {
	a.stopRefreshLoop()

	refreshCtx, cancel := context.WithCancel(ctx)
	a.stopRefresh = cancel
	go a.refresher.Run(refreshCtx)
}

func (a *App) stopRefreshLoop() {
	if a.stopRefresh != nil {
		a.stopRefresh()
		a.stopRefresh = nil
	}
}

func (a *App) ask(prompt string) (string, bool) {
	a.print(prompt)
	line, ok := a.readLine()
	return strings.TrimSpace(line), ok
}

func (a *App) askDecimal(prompt string) (decimal.Decimal, bool) {
	raw, ok := a.ask(prompt)
	if !ok {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		a.printf("Invalid amount %q", raw)
		return decimal.Zero, false
	}
	return v, true
}

func (a *App) askInt(prompt string) (int, bool) {
	raw, ok := a.ask(prompt)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		a.printf("Invalid quantity %q", raw)
		return 0, false
	}
	return v, true
}

func (a *App) readLine() (string, bool) {
	if !a.scanner.Scan() {
		return "", false
	}
	return a.scanner.Text(), true
}

func (a *App) prompt() {
	unread := a.reconciler.UnreadCount()
	if unread > 0 {
		a.print(fmt.Sprintf("[%d] > ", unread))
	} else {
		a.print("> ")
	}
}

func (a *App) print(s string) {
	fmt.Fprint(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *App) logWarn(msg string, err error) {
	if a.logger != nil {
		a.logger.Warnw(msg, "error", err)
	}
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

// Package cli is the interactive, menu-driven front end over app.State.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmynk/splitledger/internal/app"
	"github.com/mmynk/splitledger/internal/models"
)

type UI struct {
	state *app.State
	in    *bufio.Reader
	out   io.Writer
}

func NewUI(state *app.State, in io.Reader, out io.Writer) *UI {
	return &UI{state: state, in: bufio.NewReader(in), out: out}
}

// Run shows the menu until the user exits, the input ends or ctx is done.
func (ui *UI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ui.printMenu()
		line, err := ui.readLine()
		if err != nil {
			return ignoreEOF(err)
		}

		choice := strings.TrimSpace(line)
		switch choice {
		case "1":
			err = ui.createUser()
		case "2":
			err = ui.createGroup()
		case "3":
			err = ui.addUsersToGroup()
		case "4":
			err = ui.addExpense(ctx)
		case "5":
			err = ui.makePayment(ctx)
		case "6":
			err = ui.viewBalances()
		case "7":
			err = ui.viewLogs()
		case "8":
			err = ui.viewDebts()
		case "9":
			err = ui.runDemo(ctx)
		case "10":
			err = ui.settleUp(ctx)
		case "11":
			ui.listUsers()
		case "12":
			err = ui.viewJournal(ctx)
		case "0":
			return nil
		default:
			fmt.Fprintf(ui.out, "Unknown option %q\n", choice)
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (ui *UI) printMenu() {
	fmt.Fprintln(ui.out, "\n=== Expense Splitter ===")
	fmt.Fprintln(ui.out, "1) Create user")
	fmt.Fprintln(ui.out, "2) Create group")
	fmt.Fprintln(ui.out, "3) Add users to group")
	fmt.Fprintln(ui.out, "4) Add expense")
	fmt.Fprintln(ui.out, "5) Make payment")
	fmt.Fprintln(ui.out, "6) View balances")
	fmt.Fprintln(ui.out, "7) View logs")
	fmt.Fprintln(ui.out, "8) View debts")
	fmt.Fprintln(ui.out, "9) Run demo")
	fmt.Fprintln(ui.out, "10) Settle up")
	fmt.Fprintln(ui.out, "11) List users")
	fmt.Fprintln(ui.out, "12) View journal")
	fmt.Fprintln(ui.out, "0) Exit")
	fmt.Fprint(ui.out, "> ")
}

func (ui *UI) createUser() error {
	name, err := ui.prompt("Enter username: ")
	if err != nil {
		return err
	}
	u, err := ui.state.CreateUser(name)
	if err != nil {
		return ui.report(err)
	}
	fmt.Fprintf(ui.out, "User %s ready.\n", u)
	return nil
}

func (ui *UI) createGroup() error {
	name, err := ui.prompt("Enter group name: ")
	if err != nil {
		return err
	}
	if err := ui.state.CreateGroup(name); err != nil {
		return ui.report(err)
	}
	fmt.Fprintf(ui.out, "Group %s created.\n", name)
	return nil
}

func (ui *UI) addUsersToGroup() error {
	group, err := ui.prompt("Enter group name: ")
	if err != nil {
		return err
	}
	for {
		user, err := ui.prompt("Enter user name: ")
		if err != nil {
			return err
		}
		if added, err := ui.state.AddMember(group, user); err != nil {
			fmt.Fprintln(ui.out, "Error:", err)
		} else if added {
			fmt.Fprintf(ui.out, "%s joined %s.\n", user, group)
		} else {
			fmt.Fprintf(ui.out, "%s is already in %s.\n", user, group)
		}

		more, err := ui.prompt("Add another user? (1 = yes, 0 = no): ")
		if err != nil {
			return err
		}
		if more != "1" {
			return nil
		}
	}
}

func (ui *UI) addExpense(ctx context.Context) error {
	group, err := ui.prompt("Group name: ")
	if err != nil {
		return err
	}
	members, err := ui.state.Members(group)
	if err != nil {
		return ui.report(err)
	}
	payer, err := ui.prompt("Paid by (user name): ")
	if err != nil {
		return err
	}
	total, err := ui.promptAmount("Total amount: ")
	if err != nil {
		return ui.report(err)
	}

	shares := make([]app.ShareInput, 0, len(members))
	for _, m := range members {
		amount, err := ui.promptAmount(fmt.Sprintf("Share for %s: ", m))
		if err != nil {
			return ui.report(err)
		}
		shares = append(shares, app.ShareInput{User: m.Name, Amount: amount})
	}

	entry, err := ui.state.AddExpense(ctx, group, payer, total, shares)
	if err != nil {
		return ui.report(err)
	}
	fmt.Fprintf(ui.out, "Recorded: %s\n", entry)
	return nil
}

func (ui *UI) makePayment(ctx context.Context) error {
	group, err := ui.prompt("Group name: ")
	if err != nil {
		return err
	}
	from, err := ui.prompt("From (user): ")
	if err != nil {
		return err
	}
	to, err := ui.prompt("To (user): ")
	if err != nil {
		return err
	}
	amount, err := ui.promptAmount("Amount: ")
	if err != nil {
		return ui.report(err)
	}

	entry, err := ui.state.MakePayment(ctx, group, from, to, amount)
	if err != nil {
		return ui.report(err)
	}
	fmt.Fprintf(ui.out, "Recorded: %s\n", entry)
	return nil
}

func (ui *UI) viewBalances() error {
	group, err := ui.prompt("Group name: ")
	if err != nil {
		return err
	}
	return ui.report(ui.printBalances(group))
}

func (ui *UI) viewLogs() error {
	group, err := ui.prompt("Group name: ")
	if err != nil {
		return err
	}
	return ui.report(ui.printLog(group))
}

func (ui *UI) viewDebts() error {
	group, err := ui.prompt("Group name: ")
	if err != nil {
		return err
	}
	return ui.report(ui.printDebts(group))
}

func (ui *UI) settleUp(ctx context.Context) error {
	group, err := ui.prompt("Group name: ")
	if err != nil {
		return err
	}
	transfers, err := ui.state.Settle(ctx, group)
	if err != nil {
		return ui.report(err)
	}
	ui.printTransfers(fmt.Sprintf("Settlement for Group %s:", group), transfers)
	return nil
}

func (ui *UI) listUsers() {
	users := ui.state.Users()
	fmt.Fprintln(ui.out, "Users:")
	if len(users) == 0 {
		fmt.Fprintln(ui.out, "  None yet.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(ui.out, "  - %s\n", u)
	}
}

func (ui *UI) viewJournal(ctx context.Context) error {
	group, err := ui.prompt("Group name: ")
	if err != nil {
		return err
	}
	records, err := ui.state.Journal(ctx, group)
	if err != nil {
		return ui.report(err)
	}
	fmt.Fprintf(ui.out, "Journal for Group %s:\n", group)
	for _, r := range records {
		fmt.Fprintf(ui.out, "  %s  %s\n", r.ID, r.Entry)
	}
	return nil
}

func (ui *UI) runDemo(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Running demo...")
	transfers, err := ui.state.RunDemo(ctx)
	if err != nil {
		return ui.report(err)
	}
	ui.printTransfers(fmt.Sprintf("Settlement for Group %s:", app.DemoGroup), transfers)
	if err := ui.printBalances(app.DemoGroup); err != nil {
		return ui.report(err)
	}
	if err := ui.printLog(app.DemoGroup); err != nil {
		return ui.report(err)
	}
	return ui.report(ui.printDebts(app.DemoGroup))
}

func (ui *UI) printBalances(group string) error {
	balances, err := ui.state.Balances(group)
	if err != nil {
		return err
	}
	for _, b := range balances {
		fmt.Fprintf(ui.out, "Balances for user: %s -> Net balance: %d\n", b.User, b.Amount)
	}
	return nil
}

func (ui *UI) printLog(group string) error {
	entries, err := ui.state.Log(group)
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.out, "Transaction Log for Group %s:\n", group)
	for _, e := range entries {
		fmt.Fprintf(ui.out, "  - %s\n", e)
	}
	return nil
}

func (ui *UI) printDebts(group string) error {
	transfers, err := ui.state.PendingDebts(group)
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.out, "Pending Debts in Group %s:\n", group)
	if len(transfers) == 0 {
		fmt.Fprintln(ui.out, "  All settled up.")
		return nil
	}
	for _, t := range transfers {
		fmt.Fprintf(ui.out, "  %s will pay %d to %s\n", t.From, t.Amount, t.To)
	}
	return nil
}

func (ui *UI) printTransfers(title string, transfers []models.Transfer) {
	fmt.Fprintln(ui.out, title)
	if len(transfers) == 0 {
		fmt.Fprintln(ui.out, "  Nothing to settle.")
		return
	}
	for _, t := range transfers {
		fmt.Fprintf(ui.out, "  %s\n", t)
	}
}

func (ui *UI) prompt(label string) (string, error) {
	fmt.Fprint(ui.out, label)
	line, err := ui.readLine()
	return strings.TrimSpace(line), err
}

func (ui *UI) promptAmount(label string) (int64, error) {
	s, err := ui.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: must be a whole number", s)
	}
	return n, nil
}

// report prints a domain error and keeps the menu running. Input errors are
// passed through.
func (ui *UI) report(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return err
	}
	fmt.Fprintln(ui.out, "Error:", err)
	return nil
}

func (ui *UI) readLine() (string, error) {
	line, err := ui.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"library-catalog/internal/display"
	"library-catalog/library"
)

const dateLayout = "2006-01-02"

// app is one interactive session over a LibraryManager.
type app struct {
	mgr    *library.LibraryManager
	sc     *bufio.Scanner
	out    io.Writer
	format string
	prompt bool
}

func (a *app) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }
func (a *app) println(args ...any)               { fmt.Fprintln(a.out, args...) }

// ask prints label when interactive and reads one trimmed line.
func (a *app) ask(label string) (string, bool) {
	if a.prompt {
		a.printf("%s: ", label)
	}
	if !a.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.sc.Text()), true
}

func (a *app) run() {
	if a.prompt {
		a.println("Welcome to the Library Catalog!")
		a.printHelp()
	}

	for {
		if a.prompt {
			a.printf("\n> ")
		}
		if !a.sc.Scan() {
			break
		}
		cmd := strings.TrimSpace(a.sc.Text())

		switch cmd {
		case "":
			continue
		case "add book":
			a.handleAddBook()
		case "add member":
			a.handleAddMember()
		case "list books":
			a.handleListBooks()
		case "list available":
			a.handleListAvailable()
		case "list members":
			a.handleListMembers()
		case "search book":
			a.handleSearchBooks()
		case "checkout":
			a.handleCheckout()
		case "return":
			a.handleReturn()
		case "member loans":
			a.handleMemberLoans()
		case "active loans":
			a.handleActiveLoans()
		case "overdue":
			a.handleOverdue()
		case "upgrade member":
			a.handleUpgradeMember()
		case "stats":
			a.handleStats()
		case "help":
			a.printHelp()
		case "exit":
			a.println("Goodbye!")
			return
		default:
			a.println("Unknown command. Type 'help' to list the available commands.")
		}
	}
}

func (a *app) printHelp() {
	a.println("Available commands:")
	a.println("  Books: add book, list books, list available, search book")
	a.println("  Members: add member, list members, upgrade member")
	a.println("  Circulation: checkout, return, member loans, active loans, overdue")
	a.println("  Reports: stats")
	a.println("  System: help, exit")
}

// ------------------ Books ------------------

func (a *app) handleAddBook() {
	title, ok := a.ask("Title")
	if !ok {
		return
	}
	author, ok := a.ask("Author")
	if !ok {
		return
	}
	isbn, ok := a.ask("ISBN")
	if !ok {
		return
	}
	catStr, ok := a.ask("Category (Fiction, Non-Fiction, Science, Technology)")
	if !ok {
		return
	}

	category, err := library.ParseCategory(catStr)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}

	book := library.NewBook(title, author, isbn, category)
	if err := a.mgr.AddBook(book); err != nil {
		a.printf("Error adding book: %v\n", err)
		return
	}
	a.printf("Added book '%s' with ID %s\n", title, book.Details().ID)
}

func (a *app) handleListBooks() {
	books, err := a.mgr.GetAllBooks()
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		a.println("No books in library.")
		return
	}
	a.printBooks(books)
}

func (a *app) handleListAvailable() {
	catStr, ok := a.ask("Category (blank for all)")
	if !ok {
		return
	}

	var filter []library.Category
	if catStr != "" {
		category, err := library.ParseCategory(catStr)
		if err != nil {
			a.printf("Error: %v\n", err)
			return
		}
		filter = append(filter, category)
	}

	books, err := a.mgr.GetAvailableBooks(filter...)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		a.println("No books available.")
		return
	}
	a.printBooks(books)
}

func (a *app) handleSearchBooks() {
	query, ok := a.ask("Query")
	if !ok {
		return
	}

	books, err := a.mgr.SearchBooks(query)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		a.printf("No books found matching '%s'.\n", query)
		return
	}

	a.printf("Found %d book(s) matching '%s':\n", len(books), query)
	a.printBooks(books)
}

func (a *app) printBooks(books []library.Book) {
	a.printf("%-36s %-30s %-20s %-12s %s\n", "ID", "Title", "Author", "Category", "Available")
	a.println(strings.Repeat("-", 112))
	for _, b := range books {
		a.printf("%-36s %-30s %-20s %-12s %t\n",
			b.ID, display.Truncate(b.Title, 30), display.Truncate(b.Author, 20), b.Category, b.Available)
	}
}

// ------------------ Members ------------------

func (a *app) handleAddMember() {
	name, ok := a.ask("Name")
	if !ok {
		return
	}
	email, ok := a.ask("Email")
	if !ok {
		return
	}
	tierStr, ok := a.ask("Tier (Standard, Premium; blank for Standard)")
	if !ok {
		return
	}

	tier, err := library.ParseTier(tierStr)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}

	member := library.NewMember(name, email, tier)
	if err := a.mgr.AddMember(member); err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.printf("Added member '%s' with ID %s\n", name, member.Details().ID)
}

func (a *app) handleListMembers() {
	members, err := a.mgr.GetAllMembers()
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(members) == 0 {
		a.println("No members registered.")
		return
	}

	a.printf("%-36s %-25s %-30s %s\n", "ID", "Name", "Email", "Tier")
	a.println(strings.Repeat("-", 104))
	for _, m := range members {
		a.printf("%-36s %-25s %-30s %s\n", m.ID, display.Truncate(m.Name, 25), display.Truncate(m.Email, 30), m.Tier)
	}
}

func (a *app) handleUpgradeMember() {
	memberID, ok := a.ask("Member ID")
	if !ok {
		return
	}

	if err := a.mgr.UpgradeMembership(memberID); err != nil {
		a.printf("Error upgrading member: %v\n", err)
		return
	}
	member, err := a.mgr.GetMember(memberID)
	if err != nil || member == nil {
		a.printf("Member %s upgraded, but could not be reloaded: %v\n", memberID, err)
		return
	}
	a.printf("%s is now a %s member\n", member.Name, member.Tier)
}

// ------------------ Circulation ------------------

func (a *app) handleCheckout() {
	memberID, ok := a.ask("Member ID")
	if !ok {
		return
	}
	bookID, ok := a.ask("Book ID")
	if !ok {
		return
	}

	loan, err := a.mgr.LoanBook(memberID, bookID)
	if err != nil {
		a.printf("Error checking out book: %v\n", err)
		return
	}

	member, err := a.mgr.GetMember(memberID)
	if err != nil || member == nil {
		a.printf("Loan %s created, but its member could not be reloaded: %v\n", loan.ID, err)
		return
	}
	book, err := a.mgr.GetBook(bookID)
	if err != nil || book == nil {
		a.printf("Loan %s created, but its book could not be reloaded: %v\n", loan.ID, err)
		return
	}
	a.printf("Book '%s' loaned to %s until %s (loan ID %s)\n",
		book.Title, member.Name, loan.DueAt.Format(dateLayout), loan.ID)
}

func (a *app) handleReturn() {
	loanID, ok := a.ask("Loan ID")
	if !ok {
		return
	}

	if err := a.mgr.ReturnBook(loanID); err != nil {
		a.printf("Error returning book: %v\n", err)
		return
	}

	loan, err := a.mgr.GetLoan(loanID)
	if err != nil || loan == nil {
		a.printf("Loan %s returned, but could not be reloaded: %v\n", loanID, err)
		return
	}
	book, err := a.mgr.GetBook(loan.BookID)
	if err != nil || book == nil {
		a.printf("Loan %s returned, but its book could not be reloaded: %v\n", loanID, err)
		return
	}
	member, err := a.mgr.GetMember(loan.MemberID)
	if err != nil || member == nil {
		a.printf("Loan %s returned, but its member could not be reloaded: %v\n", loanID, err)
		return
	}
	a.printf("Book '%s' returned by %s\n", book.Title, member.Name)
	a.println("Book is now available for checkout")
}

func (a *app) handleMemberLoans() {
	memberID, ok := a.ask("Member ID")
	if !ok {
		return
	}
	loans, err := a.mgr.GetMemberLoans(memberID)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.reportLoans(loans, "No loans for this member.")
}

func (a *app) handleActiveLoans() {
	memberID, ok := a.ask("Member ID")
	if !ok {
		return
	}
	loans, err := a.mgr.GetMemberActiveLoans(memberID)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.reportLoans(loans, "No active loans for this member.")
}

func (a *app) handleOverdue() {
	loans, err := a.mgr.GetOverdueLoans()
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.reportLoans(loans, "No overdue loans.")
}

func (a *app) reportLoans(loans []library.Loan, empty string) {
	if a.format == "json" {
		a.printJSON(loans)
		return
	}
	if len(loans) == 0 {
		a.println(empty)
		return
	}

	a.printf("%-36s %-30s %-10s %-10s %s\n", "Loan ID", "Book", "Loaned", "Due", "Returned")
	a.println(strings.Repeat("-", 100))
	for _, l := range loans {
		title := l.BookID
		if b, err := a.mgr.GetBook(l.BookID); err == nil && b != nil {
			title = b.Title
		}
		a.printf("%-36s %-30s %-10s %-10s %s\n",
			l.ID, display.Truncate(title, 30), l.LoanedAt.Format(dateLayout), l.DueAt.Format(dateLayout), returnedLabel(l.ReturnedAt))
	}
}

func returnedLabel(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

// ------------------ Reports ------------------

func (a *app) handleStats() {
	stats, err := a.mgr.GetStatistics()
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}

	if a.format == "json" {
		a.printJSON(stats)
		return
	}

	a.printf("Total books:     %d\n", stats.TotalBooks)
	a.printf("Available books: %d\n", stats.AvailableBooks)
	a.printf("Members:         %d\n", stats.TotalMembers)
	a.printf("Active loans:    %d\n", stats.ActiveLoans)
	a.printf("Overdue loans:   %d\n", stats.OverdueLoans)
	a.printf("Loaned:          %s%%\n", stats.LoanedPercentage)
}

func (a *app) printJSON(v any) {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.println(string(data))
}

// Package page renders the console's server-side pages. Each page is
// exposed as a templ.Component so handlers can mount them with
// templ.Handler.
package page

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type pageData struct {
	Title  string
	Active string
}

func render(name string, data pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

func HomePage() templ.Component {
	return render("home.html", pageData{Title: "gestapp"})
}

func LoginPage() templ.Component {
	return render("login.html", pageData{Title: "Sign in"})
}

func TasksPage() templ.Component {
	return render("console.html", pageData{Title: "Tasks", Active: "tasks"})
}

func ResidentsPage() templ.Component {
	return render("console.html", pageData{Title: "Residents", Active: "residents"})
}

func ReportsPage() templ.Component {
	return render("console.html", pageData{Title: "Reports", Active: "reports"})
}

func MessagesPage() templ.Component {
	return render("console.html", pageData{Title: "Messages", Active: "messages"})
}

package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"
	jsoniter "github.com/json-iterator/go"

	"sales-dashboard/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Page is everything the first paint of the dashboard needs.
type Page struct {
	Categories    []string
	SubCategories []string
	Views         models.Views
}

// Signals is the client-side state datastar sends back with every request.
type Signals struct {
	Category      string   `json:"category"`
	SubCategories []string `json:"subCategories"`
}

// SignalsFor mirrors a selection into its signal form.
func SignalsFor(sel models.Selection) Signals {
	subs := sel.SubCategories
	if subs == nil {
		subs = []string{}
	}
	return Signals{Category: sel.Category, SubCategories: subs}
}

type pageData struct {
	Signals       string
	Categories    []option
	SubCategories []option
	Views         models.Views
	Records       recordRows
}

func Dashboard(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(SignalsFor(p.Views.Selection))
		if err != nil {
			return err
		}

		sel := p.Views.Selection
		return templ.FromGoHTML(views.Lookup("dashboard"), pageData{
			Signals:       string(signals),
			Categories:    options(p.Categories, []string{sel.Category}),
			SubCategories: options(p.SubCategories, sel.SubCategories),
			Views:         p.Views,
			Records:       capRecords(p.Views.Filtered),
		}).Render(ctx, w)
	})
}

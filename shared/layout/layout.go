package layout

import (
	"html/template"

	hb "github.com/gouniverse/hb"
)

// Options bundles parameters for rendering the full HTML layout.
type Options struct {
	Title           string
	BasePath        string
	SafeModeDefault bool
	MainHTML        string
	// SidebarHTML, when provided, renders on the left in a "w-72" column.
	SidebarHTML  string
	ExtraHead    []hb.TagInterface
	ExtraBodyEnd []hb.TagInterface
}

// RenderWith builds the full HTML using the provided options struct.
func RenderWith(o Options) template.HTML {
	headChildren := []hb.TagInterface{
		hb.NewTag("meta").Attr("charset", "utf-8"),
		hb.NewTag("meta").Attr("name", "viewport").Attr("content", "width=device-width, initial-scale=1"),
		hb.NewTag("title").Text(o.Title + " · WeeQuery"),
		hb.ScriptURL("https://cdn.tailwindcss.com"),
	}
	headChildren = append(headChildren, o.ExtraHead...)

	header := hb.Header().
		Class("wq-header border-b border-gray-200 bg-white px-4 py-2").
		Child(
			hb.Div().
				Class("flex items-center justify-between").
				Children([]hb.TagInterface{
					hb.Heading1().
						Class("text-lg font-semibold").
						Child(hb.A().Href(o.BasePath).Text("WeeQuery")),
					hb.Nav().Class("text-sm text-slate-500").Children([]hb.TagInterface{
						hb.A().Href(o.BasePath + "?action=healthz").Text("Health"),
					}),
				}),
		)

	var sidebar hb.TagInterface
	if o.SidebarHTML != "" {
		sidebar = hb.Aside().Class("wq-sidebar shrink-0 border-r border-gray-200 bg-gray-50 p-3 w-72").
			Child(hb.Raw(o.SidebarHTML))
	}

	main := hb.Main().Class("wq-main grow p-4 min-w-0").
		Child(hb.Raw(o.MainHTML))

	footer := hb.Footer().Class("wq-footer px-4 py-2 text-xs text-slate-500").Child(
		hb.NewTag("small").Child(hb.Text("Safe mode: ")).ChildIf(o.SafeModeDefault, hb.Text("ON")).ChildIf(!o.SafeModeDefault, hb.Text("OFF")),
	)

	bodyChildren := []hb.TagInterface{
		header,
		hb.Div().Class("wq-shell flex min-h-[80vh]").Children([]hb.TagInterface{
			sidebar,
			main,
		}),
		footer,
	}
	bodyChildren = append(bodyChildren, o.ExtraBodyEnd...)

	html := hb.NewTag("html").
		Attr("lang", "en").
		Children([]hb.TagInterface{
			hb.NewTag("head").
				Children(headChildren),
			hb.NewTag("body").
				Class("bg-white text-slate-800").
				Children(bodyChildren),
		})

	return template.HTML("<!doctype html>" + html.ToHTML())
}

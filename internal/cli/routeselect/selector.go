package routeselect

import (
	"fmt"
	"path"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/rce-portal/portal/internal/router"
)

// Option is one navigable entry of the route table
type Option struct {
	Label string
	Path  string
	Name  string
	Auth  bool
}

// Options flattens the route table into the routes that render a view.
// Redirect-only routes are skipped.
func Options(routes []router.Route) []Option {
	var options []Option
	collect(routes, "", false, &options)
	return options
}

func collect(routes []router.Route, parentPath string, parentAuth bool, options *[]Option) {
	for _, r := range routes {
		fullPath := r.Path
		if !strings.HasPrefix(fullPath, "/") {
			fullPath = path.Join(parentPath, fullPath)
		}
		auth := parentAuth || r.Meta.RequiresAuth

		if r.View != "" {
			label := fmt.Sprintf("%s (%s)", r.Name, fullPath)
			*options = append(*options, Option{Label: label, Path: fullPath, Name: r.Name, Auth: auth})
		}

		collect(r.Children, fullPath, auth, options)
	}
}

// PromptRoute shows an interactive prompt for the user to pick a route
func PromptRoute(routes []router.Route) (string, error) {
	options := Options(routes)
	if len(options) == 0 {
		return "", fmt.Errorf("no routes to choose from")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Open a page",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("route selection cancelled: %w", err)
	}

	return options[index].Path, nil
}

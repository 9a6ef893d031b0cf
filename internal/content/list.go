// Package content loads the icon list shown on the page and builds the
// element tree the interaction layer works on.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/pders01/homepage/internal/feed"
	"github.com/pders01/homepage/internal/validation"
)

// Item is one icon entry of list.json. Tab and Info hold ';'-separated
// lists.
type Item struct {
	Tab     string `json:"tab"`
	Href    string `json:"href"`
	Img     string `json:"img"`
	Alt     string `json:"alt"`
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Info    string `json:"info"`
	Zoom    string `json:"zoom"`
}

type List struct {
	Items []Item `json:"items"`
}

// Tab is a named group of items, sorted for display.
type Tab struct {
	Name  string
	Items []Item
}

// Tabs returns the trimmed, non-empty tab names of the item.
func (i Item) Tabs() []string {
	return splitList(i.Tab)
}

// Badge is an overlay image at one of the four corner positions.
type Badge struct {
	Position int
	File     string
}

// Badges returns the badge images. Empty entries keep their slot, so
// "a.png;;b.png" puts b.png at position 3.
func (i Item) Badges() []Badge {
	var out []Badge
	if i.Info == "" {
		return out
	}
	for idx, part := range strings.Split(i.Info, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, Badge{Position: idx + 1, File: part})
		}
	}
	return out
}

// Link is the navigation target, "#" when none is set.
func (i Item) Link() string {
	if i.Href == "" {
		return "#"
	}
	return i.Href
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Parse decodes a list document. Hand-edited lists may carry // line
// comments, /* block comments */ and trailing commas.
func Parse(data []byte) (*List, error) {
	var list List
	if err := json.Unmarshal(jsonc.ToJSON(data), &list); err != nil {
		return nil, fmt.Errorf("parsing list: %w", err)
	}
	return &list, nil
}

// Load reads list.json from a local path or an http(s) URL. Remote bodies
// go to Parse unchecked so comments survive the trip. A nil fetcher gets
// the default endpoint policy.
func Load(ctx context.Context, fetcher *feed.Fetcher, source string) (*List, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("no list source configured")
	}

	var (
		data []byte
		err  error
	)
	if validation.IsRemote(source) {
		if fetcher == nil {
			fetcher = feed.NewFetcher(nil)
		}
		data, err = fetcher.Fetch(ctx, source, "application/json")
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading list %s: %w", source, err)
	}
	return Parse(data)
}

// Tabs groups items by tab in first-seen order. Within a tab, items are
// ordered by text, ignoring case. An item listed under several tabs
// appears in each.
func (l *List) Tabs() []Tab {
	var (
		order []string
		byTab = make(map[string][]Item)
	)
	for _, item := range l.Items {
		for _, name := range item.Tabs() {
			if _, seen := byTab[name]; !seen {
				order = append(order, name)
				byTab[name] = nil
			}
			byTab[name] = append(byTab[name], item)
		}
	}

	tabs := make([]Tab, 0, len(order))
	for _, name := range order {
		items := byTab[name]
		sort.SliceStable(items, func(a, b int) bool {
			return strings.ToLower(items[a].Text) < strings.ToLower(items[b].Text)
		})
		tabs = append(tabs, Tab{Name: name, Items: items})
	}
	return tabs
}

// Tab returns the named tab, if present.
func (l *List) Tab(name string) (Tab, bool) {
	for _, t := range l.Tabs() {
		if t.Name == name {
			return t, true
		}
	}
	return Tab{}, false
}

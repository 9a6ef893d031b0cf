package content

import (
	"fmt"

	"github.com/pders01/homepage/internal/interaction"
)

// Icon holds the nodes of one rendered entry so a host can aim events at
// them.
type Icon struct {
	Item    Item
	Link    *interaction.Node
	Wrapper *interaction.Node
	Label   *interaction.Node
}

// Grid is the element tree of one tab.
type Grid struct {
	Name  string
	Root  *interaction.Node
	Icons []Icon
}

// BuildGrid renders a tab as
// section > ul.icon-grid > li > a > div.icon-wrapper > (img, badges, div.icon-text).
func BuildGrid(tab Tab) Grid {
	list := interaction.NewNode("ul", "icon-grid")
	root := interaction.NewNode("section", "tab-content").SetAttr("id", tab.Name).Append(list)

	grid := Grid{Name: tab.Name, Root: root, Icons: make([]Icon, 0, len(tab.Items))}
	for _, item := range tab.Items {
		wrap := interaction.NewNode("div", interaction.IconWrapperClass)
		if item.Tooltip != "" {
			wrap.SetAttr(interaction.TooltipAttr, item.Tooltip)
		}
		if item.Zoom != "" {
			wrap.SetAttr("data-zoom", item.Zoom)
		}
		wrap.Append(interaction.NewNode("img").SetAttr("src", item.Img).SetAttr("alt", item.Alt))
		for _, badge := range item.Badges() {
			wrap.Append(interaction.NewNode("img", fmt.Sprintf("icon-badge-pos%d", badge.Position)).
				SetAttr("src", "icon/"+badge.File).
				SetAttr("alt", ""))
		}
		label := interaction.NewNode("div", "icon-text").SetText(item.Text)
		wrap.Append(label)

		link := interaction.NewNode("a").
			SetAttr("href", item.Link()).
			SetAttr("target", "_blank").
			Append(wrap)
		list.Append(interaction.NewNode("li").Append(link))

		grid.Icons = append(grid.Icons, Icon{Item: item, Link: link, Wrapper: wrap, Label: label})
	}
	return grid
}

// BuildGrids renders every tab of the list.
func BuildGrids(l *List) []Grid {
	tabs := l.Tabs()
	grids := make([]Grid, 0, len(tabs))
	for _, t := range tabs {
		grids = append(grids, BuildGrid(t))
	}
	return grids
}

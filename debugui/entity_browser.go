package debugui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/kiln/ecs"
)

type EntityInfo struct {
	ID         ecs.EntityId
	Components []string
}

const (
	sortByID = iota
	sortByComponents
	sortByCount
)

// EntityBrowser lists every entity with its component types. The list is
// rebuilt when the storage version changes.
type EntityBrowser struct {
	entities      []EntityInfo
	version       uint64
	built         bool
	sortColumn    int
	sortAscending bool

	selected    ecs.EntityId
	hasSelected bool
	filterText  string
	perPage     int
	page        int
}

func NewEntityBrowser(perPage int) EntityBrowser {
	return EntityBrowser{perPage: max(1, perPage), sortAscending: true}
}

// Selected returns the entity picked in the table, if any.
func (eb *EntityBrowser) Selected() (ecs.EntityId, bool) {
	return eb.selected, eb.hasSelected
}

func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selected, eb.hasSelected = id, true
}

func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
	eb.page = 0
}

func (eb *EntityBrowser) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh(storage)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.SetFilter("")
	}

	filtered := eb.Filtered()
	if eb.perPage == 0 {
		eb.perPage = 100
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
			filtered = eb.Filtered()
		}

		start := min(eb.page*eb.perPage, len(filtered))
		end := min(start+eb.perPage, len(filtered))
		for _, entity := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelected && eb.selected == entity.ID
			if imgui.SelectableBoolV(entity.ID.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.Select(entity.ID)
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Components, ", "))

			imgui.TableNextColumn()
			imgui.Text(strconv.Itoa(len(entity.Components)))
		}

		imgui.EndTable()
	}

	if len(filtered) > eb.perPage {
		pages := (len(filtered) + eb.perPage - 1) / eb.perPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.page > 0 {
			eb.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.page < pages-1 {
			eb.page++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

// Refresh rebuilds the entity list if the storage changed since the last
// call.
func (eb *EntityBrowser) Refresh(storage *ecs.Storage) {
	if eb.built && eb.version == storage.Version() {
		return
	}
	eb.entities = eb.entities[:0]
	for i := range storage.Len() {
		id := ecs.EntityId(i)
		types := storage.ComponentTypes(id)
		names := make([]string, len(types))
		for j, t := range types {
			names[j] = t.Name()
		}
		eb.entities = append(eb.entities, EntityInfo{ID: id, Components: names})
	}
	eb.version = storage.Version()
	eb.built = true
	eb.sort()
}

// SortBy orders the list by column 0 (id), 1 (component names) or 2
// (component count).
func (eb *EntityBrowser) SortBy(column int, ascending bool) {
	eb.sortColumn, eb.sortAscending = column, ascending
	eb.sort()
}

func (eb *EntityBrowser) sort() {
	slices.SortStableFunc(eb.entities, func(a, b EntityInfo) int {
		var c int
		switch eb.sortColumn {
		case sortByComponents:
			c = strings.Compare(strings.Join(a.Components, ","), strings.Join(b.Components, ","))
		case sortByCount:
			c = len(a.Components) - len(b.Components)
		}
		if c == 0 {
			c = int(a.ID) - int(b.ID)
		}
		if !eb.sortAscending {
			return -c
		}
		return c
	})
}

// Filtered returns the entities whose id or component names contain the
// filter text, case-insensitively.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" {
		return eb.entities
	}
	needle := strings.ToLower(eb.filterText)
	filtered := make([]EntityInfo, 0, len(eb.entities))
	for _, entity := range eb.entities {
		if strings.Contains(strconv.Itoa(int(entity.ID)), needle) ||
			strings.Contains(strings.ToLower(strings.Join(entity.Components, " ")), needle) {
			filtered = append(filtered, entity)
		}
	}
	return filtered
}

package detector

import (
	"container/list"

	"github.com/rollscan/rollscan/internal/utils"
)

// Region is an accepted voter-box rectangle on a page.
type Region struct {
	Box utils.Box
}

// connectedComponents finds 4-connected foreground components in the page
// mask and returns the bounding box and pixel count of each.
func connectedComponents(page *BinaryPage) []component {
	w, h := page.Width, page.Height
	visited := make([]bool, w*h)
	var comps []component

	for y := range h {
		for x := range w {
			idx := y*w + x
			if page.Mask[idx] && !visited[idx] {
				comps = append(comps, componentBFS(page, visited, x, y))
			}
		}
	}
	return comps
}

// component holds per-contour statistics gathered during traversal.
type component struct {
	count int
	minX  int
	minY  int
	maxX  int
	maxY  int
}

func (c component) bounds() utils.Box {
	return utils.NewBox(c.minX, c.minY, c.maxX+1, c.maxY+1)
}

// componentBFS flood-fills one component starting from a seed pixel.
func componentBFS(page *BinaryPage, visited []bool, startX, startY int) component {
	w, h := page.Width, page.Height
	st := component{minX: startX, minY: startY, maxX: startX, maxY: startY}

	q := list.New()
	q.PushBack(startY*w + startX)
	visited[startY*w+startX] = true

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w

		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if page.Mask[ni] && !visited[ni] {
				visited[ni] = true
				q.PushBack(ni)
			}
		}
	}
	return st
}

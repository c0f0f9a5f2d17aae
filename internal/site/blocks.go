package site

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/links"
)

// Marker classes and data attributes forming the contract between the page
// templates and this tooling. Containers or anchors missing from a page are
// silently skipped, never an error.
const (
	ClassLaunchBlock    = "nb-launch"
	ClassHistoryControl = "nb-history"
	ClassDateControl    = "nb-datepicker"
	ClassStatus         = "nb-history-status"

	AttrRepoSlug    = "data-repo-slug"
	AttrRepoBranch  = "data-repo-branch"
	AttrHistoryPath = "data-history-path"
	AttrNotebook    = "data-nb-path"
)

// roleClasses maps each anchor role to its marker class inside a launch
// block.
var roleClasses = map[links.Role]string{
	links.RolePage:   "nb-open",
	links.RoleColab:  "nb-colab",
	links.RoleBinder: "nb-binder",
	links.RoleViewer: "nb-viewer",
	links.RoleGitHub: "nb-github",
	links.RoleRaw:    "nb-download",
}

// Anchor wraps one tracked <a> element.
type Anchor struct {
	Role links.Role
	node *html.Node
}

// Href returns the current href attribute.
func (a *Anchor) Href() string { return getAttr(a.node, "href") }

// SetHref replaces the href attribute.
func (a *Anchor) SetHref(href string) { setAttr(a.node, "href", href) }

// Title returns the current title attribute.
func (a *Anchor) Title() string { return getAttr(a.node, "title") }

// SetTitle replaces the title attribute.
func (a *Anchor) SetTitle(title string) { setAttr(a.node, "title", title) }

// LaunchBlock is one launch-button container: a set of role-tagged anchors
// for a single notebook.
type LaunchBlock struct {
	// Page is the site-relative path of the containing page.
	Page string
	// Index is the 0-based position of the block on its page; Page plus
	// Index identify a block across repeated scans of the same document.
	Index int
	// Notebook is the repository file path the block's anchors refer to.
	Notebook string
	Anchors  []*Anchor

	node *html.Node
}

// Key identifies the block across rescans of an unchanged document.
func (b *LaunchBlock) Key() string {
	return b.Page + "#" + strconv.Itoa(b.Index)
}

// HistoryControl is the global day-selector container.
type HistoryControl struct {
	Slug        string
	Branch      string
	HistoryPath string

	node   *html.Node
	status *html.Node
}

// DateControl is a legacy per-notebook date picker container.
type DateControl struct {
	Slug     string
	Branch   string
	Notebook string

	node   *html.Node
	status *html.Node
	open   *Anchor
}

// OpenAnchor returns the control's own open link, or nil.
func (d *DateControl) OpenAnchor() *Anchor { return d.open }

// FindLaunchBlocks locates all launch blocks on a page, in document order.
func FindLaunchBlocks(p *Page) []*LaunchBlock {
	var blocks []*LaunchBlock
	walk(p.Doc, func(n *html.Node) bool {
		if !isElementWithClass(n, ClassLaunchBlock) {
			return true
		}
		block := &LaunchBlock{
			Page:     p.Rel,
			Index:    len(blocks),
			Notebook: getAttr(n, AttrNotebook),
			node:     n,
		}
		for role, class := range roleClasses {
			if a := findAnchor(n, class); a != nil {
				block.Anchors = append(block.Anchors, &Anchor{Role: role, node: a})
			}
		}
		sortAnchors(block.Anchors)
		blocks = append(blocks, block)
		return false
	})
	return blocks
}

// FindHistoryControl returns the page's global history control, or nil.
func FindHistoryControl(p *Page) *HistoryControl {
	var control *HistoryControl
	walk(p.Doc, func(n *html.Node) bool {
		if control != nil || !isElementWithClass(n, ClassHistoryControl) {
			return control == nil
		}
		control = &HistoryControl{
			Slug:        getAttr(n, AttrRepoSlug),
			Branch:      getAttr(n, AttrRepoBranch),
			HistoryPath: getAttr(n, AttrHistoryPath),
			node:        n,
			status:      findByClass(n, ClassStatus),
		}
		return false
	})
	return control
}

// FindDateControls locates legacy per-notebook date pickers. The legacy mode
// only applies when no global control exists; callers enforce that.
func FindDateControls(p *Page) []*DateControl {
	var controls []*DateControl
	walk(p.Doc, func(n *html.Node) bool {
		if !isElementWithClass(n, ClassDateControl) {
			return true
		}
		control := &DateControl{
			Slug:     getAttr(n, AttrRepoSlug),
			Branch:   getAttr(n, AttrRepoBranch),
			Notebook: getAttr(n, AttrNotebook),
			node:     n,
			status:   findByClass(n, ClassStatus),
		}
		if a := findAnchor(n, roleClasses[links.RolePage]); a != nil {
			control.open = &Anchor{Role: links.RolePage, node: a}
		}
		controls = append(controls, control)
		return false
	})
	return controls
}

// PrecedingLaunchBlock returns the launch block nearest before the date
// control in its sibling chain, or nil. Legacy resolution updates only that
// one block, not the whole document.
func PrecedingLaunchBlock(p *Page, d *DateControl) *LaunchBlock {
	blocks := FindLaunchBlocks(p)
	for sib := d.node.PrevSibling; sib != nil; sib = sib.PrevSibling {
		for i := len(blocks) - 1; i >= 0; i-- {
			if blocks[i].node == sib || containsNode(sib, blocks[i].node) {
				return blocks[i]
			}
		}
	}
	return nil
}

// SetStatus replaces the text of a control's status element. Missing status
// elements are a no-op.
func (h *HistoryControl) SetStatus(msg string) { setText(h.status, msg) }

// SetStatus replaces the text of the control's status element.
func (d *DateControl) SetStatus(msg string) { setText(d.status, msg) }

// --- node helpers ---

// walk visits nodes depth first; the visitor returns false to skip a
// subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func isElementWithClass(n *html.Node, class string) bool {
	return n.Type == html.ElementNode && hasClass(n, class)
}

func hasClass(n *html.Node, class string) bool {
	for _, token := range strings.Fields(getAttr(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func findByClass(root *html.Node, class string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if isElementWithClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

func findAnchor(root *html.Node, class string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

func containsNode(root, target *html.Node) bool {
	found := false
	walk(root, func(n *html.Node) bool {
		if n == target {
			found = true
		}
		return !found
	})
	return found
}

func setText(n *html.Node, text string) {
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func sortAnchors(anchors []*Anchor) {
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Role < anchors[j].Role })
}

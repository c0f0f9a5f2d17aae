package links

import (
	"fmt"
	"net/url"
	"strings"
)

// Role identifies one anchor inside a launch block.
type Role int

const (
	// RolePage is the primary open-notebook link of a block
	RolePage Role = iota
	// RoleColab launches the notebook on Google Colab
	RoleColab
	// RoleBinder launches the notebook on mybinder.org
	RoleBinder
	// RoleViewer renders the notebook on nbviewer.org
	RoleViewer
	// RoleGitHub shows the notebook in the repository web view
	RoleGitHub
	// RoleRaw downloads the raw notebook file
	RoleRaw
)

// String returns the role name used in logs and status messages.
func (r Role) String() string {
	switch r {
	case RolePage:
		return "page"
	case RoleColab:
		return "colab"
	case RoleBinder:
		return "binder"
	case RoleViewer:
		return "nbviewer"
	case RoleGitHub:
		return "github"
	case RoleRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Roles lists all anchor roles in a stable order.
var Roles = []Role{RolePage, RoleColab, RoleBinder, RoleViewer, RoleGitHub, RoleRaw}

// EncodePath percent-encodes each segment of a slash-separated file path
// independently, leaving the slash separators intact. Notebook filenames may
// contain spaces and hash characters, which are unsafe in a URL path
// component.
func EncodePath(path string) string {
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// LaunchURLs holds one target URL per anchor role, computed for a single
// (slug, ref, path) triple. The page/primary anchor points at the nbviewer
// rendering.
type LaunchURLs struct {
	Viewer string
	Colab  string
	Binder string
	GitHub string
	Raw    string
}

// ForRef computes the launch URL set for a notebook at a specific ref. The
// ref is either a branch name (live view) or a commit revision (historical
// view); the templates do not distinguish the two.
func ForRef(slug, ref, path string) LaunchURLs {
	encoded := EncodePath(path)
	return LaunchURLs{
		Viewer: fmt.Sprintf("https://nbviewer.org/github/%s/blob/%s/%s", slug, ref, encoded),
		Colab:  fmt.Sprintf("https://colab.research.google.com/github/%s/blob/%s/%s", slug, ref, encoded),
		Binder: fmt.Sprintf("https://mybinder.org/v2/gh/%s/%s?filepath=%s", slug, ref, encoded),
		GitHub: fmt.Sprintf("https://github.com/%s/blob/%s/%s", slug, ref, encoded),
		Raw:    fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", slug, ref, encoded),
	}
}

// ForRole returns the URL for a single anchor role.
func (u LaunchURLs) ForRole(role Role) string {
	switch role {
	case RoleColab:
		return u.Colab
	case RoleBinder:
		return u.Binder
	case RoleGitHub:
		return u.GitHub
	case RoleRaw:
		return u.Raw
	default:
		// The primary anchor and the explicit viewer anchor share a target.
		return u.Viewer
	}
}

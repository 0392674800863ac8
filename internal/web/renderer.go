package web

import (
	"fmt"
	"io"
	"strings"
)

// Renderer handles rendering responses to HTTP clients.
type Renderer interface {
	RenderProfile(w io.Writer, page ProfilePage) error
	RenderHealth(w io.Writer) error
}

// HTMLRenderer implements Renderer for HTML responses.
type HTMLRenderer struct {
	// All HTML is embedded in methods, no external templates needed
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// RenderProfile writes the profile card, or the not-found card when page.Found is false.
func (r *HTMLRenderer) RenderProfile(w io.Writer, page ProfilePage) error {
	var sb strings.Builder

	description := page.Message
	if page.Found {
		description = page.Bio
	}

	sb.WriteString(htmlHead(page.Title, description))
	sb.WriteString(`
<body>
	<div class="container">
		<button class="theme-toggle" onclick="toggleTheme()" aria-label="Toggle theme">🌓</button>
`)
	if page.Found {
		r.writeProfileCard(&sb, page)
	} else {
		r.writeNotFoundCard(&sb, page)
	}
	sb.WriteString(`
	</div>
`)
	sb.WriteString(htmlFooter())

	_, err := w.Write([]byte(sb.String()))
	return err
}

func (r *HTMLRenderer) writeNotFoundCard(sb *strings.Builder, page ProfilePage) {
	fmt.Fprintf(sb, `		<div class="card not-found">
			<h1>User Not Found</h1>
			<p>%s</p>
		</div>`, escapeHTML(page.Message))
}

func (r *HTMLRenderer) writeProfileCard(sb *strings.Builder, page ProfilePage) {
	sb.WriteString(`		<div class="card">
			<div class="card-header">
`)
	if isWebURL(page.AvatarURL) {
		fmt.Fprintf(sb, `				<img class="avatar" src="%s" alt="%s">
`, escapeHTML(page.AvatarURL), escapeHTML(page.DisplayName))
	}
	fmt.Fprintf(sb, `				<div>
					<h1 class="display-name">%s</h1>
					<div class="login">%s</div>
				</div>
			</div>
`, escapeHTML(page.DisplayName), escapeHTML(page.Login))

	if len(page.Badges) > 0 {
		sb.WriteString(`			<div class="badges">
`)
		for _, b := range page.Badges {
			fmt.Fprintf(sb, `				<span class="badge badge-%s" title="%s">%s %s</span>
`, b.Kind.String(), escapeHTML(b.Tooltip), badgeIcon(b.Icon), escapeHTML(b.Label))
		}
		sb.WriteString(`			</div>
`)
	}

	fmt.Fprintf(sb, `			<p class="bio">%s</p>
`, escapeHTML(page.Bio))

	if page.Location != "" {
		fmt.Fprintf(sb, `			<div class="meta">📍 %s</div>
`, escapeHTML(page.Location))
	}
	if page.Blog != "" {
		fmt.Fprintf(sb, `			<div class="meta">🔗 %s</div>
`, externalLink(blogURL(page.Blog), page.Blog))
	}
	if page.Joined != "" {
		fmt.Fprintf(sb, `			<div class="meta">Joined %s</div>
`, escapeHTML(page.Joined))
	}

	fmt.Fprintf(sb, `			<div class="counters">
				<span><strong>%d</strong> repositories</span>
				<span><strong>%d</strong> followers</span>
				<span><strong>%d</strong> following</span>
`, page.PublicRepos, page.Followers, page.Following)
	if page.Member {
		fmt.Fprintf(sb, `				<span class="views"><strong>%s</strong> views</span>
`, escapeHTML(page.ViewCount))
	}
	sb.WriteString(`			</div>
`)

	if page.Email != "" {
		fmt.Fprintf(sb, `			<div class="meta">✉️ <a href="mailto:%s">%s</a></div>
`, escapeHTML(page.Email), escapeHTML(page.Email))
	}
	if isWebURL(page.GitHubURL) {
		fmt.Fprintf(sb, `			<div class="meta">%s</div>
`, externalLink(page.GitHubURL, "Open on GitHub →"))
	}

	sb.WriteString(`		</div>`)
}

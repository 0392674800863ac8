package web

import (
	"fmt"
	"net/url"
	"strings"
)

// htmlHead returns the common HTML head section with proper meta tags.
func htmlHead(title, description string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0, viewport-fit=cover">
	<meta name="description" content="%s">

	<!-- Open Graph / Social Media -->
	<meta property="og:type" content="profile">
	<meta property="og:title" content="%s">
	<meta property="og:description" content="%s">

	<title>%s</title>
	%s
</head>`, escapeHTML(description), escapeHTML(title), escapeHTML(description), escapeHTML(title), commonCSS())
}

// commonCSS returns the profile card styles. Colours are the only themed values.
func commonCSS() string {
	return `<style>
		:root { --page: #f5f5f5; --surface: #fff; --ink: #333; --muted: #666; --accent: #0066cc; --edge: #e0e0e0; --chip: #eef3ff; --chip-ink: #2b4c9a; }
		[data-theme="dark"] { --page: #1a1a1a; --surface: #2d2d2d; --ink: #e0e0e0; --muted: #b0b0b0; --accent: #4d9fff; --edge: #404040; --chip: #26324d; --chip-ink: #a9c1ff; }

		body { font-family: system-ui, -apple-system, sans-serif; margin: 0; padding: 20px; background: var(--page); color: var(--ink); }
		.container { max-width: 720px; margin: 0 auto; }
		.card { background: var(--surface); padding: 24px; border-radius: 8px; border: 1px solid var(--edge); }
		.card-header { display: flex; gap: 20px; align-items: center; }
		.avatar { width: 96px; height: 96px; border-radius: 50%; }
		.display-name { margin: 0; font-size: 1.6em; }
		.login, .meta, .counters { color: var(--muted); }
		.meta { margin: 4px 0; }
		.counters { display: flex; gap: 16px; margin: 16px 0; }
		.counters strong { color: var(--ink); }
		.badges { display: flex; gap: 8px; flex-wrap: wrap; margin: 12px 0; }
		.badge { background: var(--chip); color: var(--chip-ink); padding: 4px 10px; border-radius: 12px; font-size: 0.85em; }
		a { color: var(--accent); }
		.not-found { text-align: center; }
		.theme-toggle { float: right; background: none; border: 1px solid var(--edge); border-radius: 4px; cursor: pointer; }
	</style>`
}

// themeScript applies the stored theme and flips it on demand.
func themeScript() string {
	return `<script>
		const root = document.documentElement;
		root.dataset.theme = localStorage.getItem('theme') || 'light';
		function toggleTheme() {
			root.dataset.theme = root.dataset.theme === 'dark' ? 'light' : 'dark';
			localStorage.setItem('theme', root.dataset.theme);
		}
	</script>`
}

// htmlFooter closes the document.
func htmlFooter() string {
	return themeScript() + `
</body>
</html>`
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

// externalLink creates a safe external link with proper security attributes.
func externalLink(href, text string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		escapeHTML(href), escapeHTML(text))
}

// isWebURL reports whether s is an absolute http(s) URL, the only kind rendered as a link target.
func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// blogURL adds a scheme to bare blog hosts so the link does not resolve relative to the page.
func blogURL(blog string) string {
	if strings.HasPrefix(blog, "http://") || strings.HasPrefix(blog, "https://") {
		return blog
	}
	return "https://" + blog
}

var badgeIcons = map[string]string{
	"member-card": "🪪",
	"banner":      "🛡️",
	"premium":     "💎",
	"fire":        "🔥",
}

// badgeIcon resolves an icon key to its glyph.
func badgeIcon(key string) string {
	if icon, ok := badgeIcons[key]; ok {
		return icon
	}
	return "🏷️"
}

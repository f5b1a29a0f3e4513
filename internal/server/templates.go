// internal/server/templates.go
package server

import "html/template"

// listingTemplate renders the event listing. Locked events are dimmed and
// inert with an upgrade prompt; they are never omitted from the page.
var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Events</title>
<style>
.event { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; margin: 0.5rem 0; }
.event.locked { opacity: 0.4; pointer-events: none; }
.event img { max-width: 200px; }
.upgrade { font-size: 0.85rem; color: #666; }
</style>
</head>
<body>
<h1>Events</h1>
<p>Your tier: {{.RequesterTier.String}}</p>
<ul>
{{range .Events}}
<li class="event{{if .Locked}} locked{{end}}" {{if .Locked}}aria-disabled="true"{{end}}>
	<h2>{{.Title}}</h2>
	{{if .Description}}<p>{{.Description}}</p>{{end}}
	<p><time datetime="{{.StartsAt.Format "2006-01-02T15:04:05Z07:00"}}">{{.StartsAt.Format "Jan 2, 2006 15:04 MST"}}</time></p>
	{{if .ImageURL}}<img src="{{.ImageURL}}" alt="">{{end}}
	{{if .Locked}}<p class="upgrade">Upgrade to {{.RequiredTier.String}} to attend this event.</p>{{end}}
</li>
{{end}}
</ul>
</body>
</html>
`))

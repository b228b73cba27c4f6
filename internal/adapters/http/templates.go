package web

// Templates are embedded as constants so the binary is self-contained.

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Movesbook</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6f8; color: #1c2733; }
header { background: #15324f; color: #fff; padding: 0.75rem 1.5rem; display: flex; justify-content: space-between; align-items: center; }
header a { color: #fff; text-decoration: none; margin-left: 1rem; }
main { max-width: 60rem; margin: 1.5rem auto; padding: 0 1rem; }
.card { background: #fff; border-radius: 8px; padding: 1.25rem; margin-bottom: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.error { background: #fdecea; color: #b3261e; padding: 0.6rem 0.9rem; border-radius: 6px; margin-bottom: 1rem; }
.notice { background: #e8f0fe; color: #174ea6; padding: 0.6rem 0.9rem; border-radius: 6px; margin-bottom: 1rem; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 0.5rem 0.6rem; border-bottom: 1px solid #e3e6ea; }
.empty { color: #5f6b76; font-style: italic; padding: 1rem 0; }
.entity-row { display: flex; justify-content: space-between; align-items: center; padding: 0.6rem 0; border-bottom: 1px solid #e3e6ea; }
.entity-row.selected { background: #eef6ee; }
button, .btn { background: #15324f; color: #fff; border: 0; border-radius: 6px; padding: 0.45rem 0.9rem; cursor: pointer; }
input { padding: 0.45rem; border: 1px solid #c4ccd4; border-radius: 6px; width: 100%; box-sizing: border-box; margin-bottom: 0.6rem; }
label { font-size: 0.85rem; color: #44505b; }
.muted { color: #5f6b76; font-size: 0.85rem; }
</style>
</head>
<body>
<header>
  <strong>Movesbook</strong>
  <nav>
    {{if isLoggedIn}}
      <a href="/dashboard">Dashboard</a>
      <span class="muted">{{currentName}} ({{currentRole}})</span>
      <form method="post" action="/logout" style="display:inline">
        <input type="hidden" name="gorilla.csrf.Token" value="{{csrfToken}}">
        <button type="submit">Log out</button>
      </form>
    {{else}}
      <a href="/login">Log in</a>
    {{end}}
  </nav>
</header>
<main>
{{template "content" .}}
</main>
</body>
</html>`

const loginTemplate = `{{define "content"}}
<div class="card">
  <h1>Log in</h1>
  {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
  <form method="post" action="/login">
    <input type="hidden" name="gorilla.csrf.Token" value="{{csrfToken}}">
    <label for="username">Username</label>
    <input id="username" name="username" autocomplete="username">
    <label for="password">Password</label>
    <input id="password" name="password" type="password" autocomplete="current-password">
    <button type="submit">Log in</button>
  </form>
</div>
<div class="card">
  <h2>Identity token</h2>
  <p class="muted">Paste a Movesbook identity token to sign in directly.</p>
  <form method="post" action="/login">
    <input type="hidden" name="gorilla.csrf.Token" value="{{csrfToken}}">
    <label for="token">Token</label>
    <input id="token" name="token" autocomplete="off">
    <button type="submit">Use token</button>
  </form>
</div>
{{end}}`

const dashboardTemplate = `{{define "content"}}
<h1>Dashboard</h1>
{{if .IsAthlete}}
  {{range .Sections}}
  <div class="card">
    <h2>{{.Title}}</h2>
    {{if .Entities}}
      {{range .Entities}}
      <div class="entity-row">
        <div>
          <strong>{{.Name}}</strong>
          {{if .Location}}<span class="muted"> · {{.Location}}</span>{{end}}
          {{if .Sport}}<span class="muted"> · {{.Sport}}</span>{{end}}
        </div>
        <span class="muted">{{.MemberCount}} members</span>
      </div>
      {{end}}
    {{else}}
      <p class="empty">No memberships yet.</p>
    {{end}}
  </div>
  {{end}}
{{else}}
  <div class="card">
    <h2>My {{.OwnedLabel}}s</h2>
    <p class="muted"><a href="/entities/{{.OwnedType}}">Open my {{.OwnedLabel}} tab</a></p>
    {{if .Entities}}
      {{range .Entities}}
      <div class="entity-row{{if eq .ID $.SelectedID}} selected{{end}}">
        <div>
          <strong>{{.Name}}</strong>
          {{if .Location}}<span class="muted"> · {{.Location}}</span>{{end}}
          {{if .Sport}}<span class="muted"> · {{.Sport}}</span>{{end}}
        </div>
        <form method="post" action="/dashboard/select">
          <input type="hidden" name="gorilla.csrf.Token" value="{{csrfToken}}">
          <input type="hidden" name="type" value="{{.Type}}">
          <input type="hidden" name="id" value="{{.ID}}">
          <button type="submit">Open</button>
        </form>
      </div>
      {{end}}
    {{else}}
      <p class="empty">You do not manage any {{.OwnedLabel}} yet.</p>
    {{end}}
  </div>
{{end}}
{{end}}`

const entityDetailTemplate = `{{define "content"}}
<div class="card">
  <h1>{{.Entity.Name}}</h1>
  {{if .LoadFailed}}<div class="error">Could not load this {{typeLabel .Entity.Type}} right now.</div>{{end}}
  {{if .Entity.Description}}<div>{{renderMarkdown .Entity.Description}}</div>{{end}}
  <p class="muted">
    {{.Entity.MemberCount}} members
    {{if .Entity.Location}} · {{.Entity.Location}}{{end}}
    {{if .Entity.Sport}} · {{.Entity.Sport}}{{end}}
  </p>
</div>
<div class="card">
  <h2>Members</h2>
  {{if .Members}}
  <table>
    <thead><tr><th>Name</th><th>Username</th><th>Email</th><th>Role</th><th>Joined</th></tr></thead>
    <tbody>
    {{range .Members}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{.Username}}</td>
        <td>{{.Email}}</td>
        <td>{{.Role}}</td>
        <td>{{if not .JoinedAt.IsZero}}{{.JoinedAt.Format "2 Jan 2006"}}{{end}}</td>
      </tr>
    {{end}}
    </tbody>
  </table>
  {{else}}
  <p class="empty">No members yet.</p>
  {{end}}
</div>
<div class="card">
  <h2>Add member</h2>
  {{if .AddError}}<div class="error">{{.AddError}}</div>{{end}}
  {{if .AddSuccess}}<div class="notice">Member added.</div>{{end}}
  <form method="post" action="/entities/{{.Entity.Type}}/{{.Entity.ID}}/members">
    <input type="hidden" name="gorilla.csrf.Token" value="{{csrfToken}}">
    <label for="member-username">Movesbook username</label>
    <input id="member-username" name="username" value="{{.AddUsername}}" autocomplete="off">
    <label for="member-password">Their password</label>
    <input id="member-password" name="password" type="password" autocomplete="off">
    <button type="submit">Add member</button>
  </form>
</div>
{{end}}`

const entityEmptyTemplate = `{{define "content"}}
<div class="card">
  <h1>My {{.OwnedLabel}}</h1>
  <p class="empty">You do not manage any {{.OwnedLabel}} yet.</p>
  <p class="muted"><a href="/dashboard">Back to dashboard</a></p>
</div>
{{end}}`

// pageTemplates maps template names to their embedded sources.
var pageTemplates = map[string]string{
	"login.html":         loginTemplate,
	"dashboard.html":     dashboardTemplate,
	"entity_detail.html": entityDetailTemplate,
	"entity_empty.html":  entityEmptyTemplate,
}

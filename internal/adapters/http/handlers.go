package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"movesbook/internal/adapters/http/middleware"
	"movesbook/internal/application/orchestrators"
	"movesbook/internal/application/projections"
	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/membership"
	"movesbook/internal/domain/navigation"
	"movesbook/internal/domain/user"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	name := ""
	if ok {
		role = sess.Role
		name = sess.Name
	}

	funcMap := template.FuncMap{
		"currentRole": func() string { return role },
		"currentName": func() string { return name },
		"isLoggedIn":  func() bool { return role != "" },
		"csrfToken":   func() string { return csrf.Token(r) },
		"typeLabel":   func(t entity.Type) string { return t.Label() },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	page, ok := pageTemplates[templateName]
	if !ok {
		internalError(w, errors.New("unknown template "+templateName))
		return
	}
	tpl, err := template.New("layout").Funcs(funcMap).Parse(layoutTemplate)
	if err == nil {
		_, err = tpl.Parse(page)
	}
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
	}
}

// handleIndex redirects the root to the dashboard.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLoginPage renders the login form.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{})
}

// handleLogin authenticates either local dev credentials or a pasted
// identity token and creates a session.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Token:    r.PostFormValue("token"),
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	deps := orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		Signer:       tokenSigner,
		Verifier:     tokenVerifier,
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		if isHTMLRequest(r) {
			w.WriteHeader(http.StatusUnauthorized)
			renderTemplate(w, r, "login.html", map[string]any{"Error": err.Error()})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	token, err := sessions.Create(result.User, result.BearerToken)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout removes the session and clears the cookie.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("movesbook_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// dashboardSection groups one entity list for athlete rendering.
type dashboardSection struct {
	Title    string
	Entities []entity.Entity
}

// handleDashboard renders the role-specific landing page.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	query := projections.GetDashboardQuery{AccountID: sess.UserID, Role: sess.Role, Token: sess.Token}
	deps := projections.GetDashboardDeps{Directory: directory, SelectionStore: stores.SelectionStore}
	result := projections.QueryGetDashboard(r.Context(), query, deps)

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}

	if result.Role == user.RoleAthlete {
		renderTemplate(w, r, "dashboard.html", map[string]any{
			"IsAthlete": true,
			"Sections": []dashboardSection{
				{Title: "My coaching groups", Entities: result.Directory.CoachingGroups},
				{Title: "My teams", Entities: result.Directory.Teams},
				{Title: "My clubs", Entities: result.Directory.Clubs},
				{Title: "My groups", Entities: result.Directory.Groups},
			},
		})
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"IsAthlete":  false,
		"OwnedType":  result.OwnedType,
		"OwnedLabel": result.OwnedLabel,
		"Entities":   result.Entities,
		"SelectedID": result.SelectedID,
	})
}

// handleEntityTab resolves which owned entity to show when the user opens
// their entity tab, then redirects to its detail page.
func handleEntityTab(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	entityType, err := entity.ParseType(r.PathValue("type"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if owned, ok := entity.OwnedType(sess.Role); !ok || owned != entityType {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	entities := directory.ListOwned(r.Context(), sess.Role, sess.Token)
	input := orchestrators.ActivateEntityTabInput{
		AccountID:  sess.UserID,
		Role:       sess.Role,
		EntityType: entityType,
		Entities:   entities,
	}
	outcome, err := orchestrators.ExecuteActivateEntityTab(r.Context(), input, orchestrators.ActivateEntityTabDeps{SelectionStore: stores.SelectionStore})
	if err != nil {
		internalError(w, err)
		return
	}

	if outcome.Kind != navigation.KindLoadDetail {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/entities/"+string(outcome.EntityType)+"/"+outcome.EntityID, http.StatusSeeOther)
}

// handleEntityDetailNoID handles a detail page opened without an entity id.
// An administrator with owned entities is sent back to pick one; an
// administrator with none sees the empty state.
func handleEntityDetailNoID(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	entityType, err := entity.ParseType(r.PathValue("type"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	var entities []entity.Entity
	if owned, ok := entity.OwnedType(sess.Role); ok && owned == entityType {
		entities = directory.ListOwned(r.Context(), sess.Role, sess.Token)
	}

	outcome := navigation.Resolve(navigation.Request{
		Role:       sess.Role,
		Page:       navigation.PageDetail,
		EntityType: entityType,
		Entities:   entities,
	})

	if outcome.Kind != navigation.KindEmpty {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, map[string]any{"empty": true, "type": entityType})
		return
	}
	renderTemplate(w, r, "entity_empty.html", map[string]any{"OwnedLabel": entityType.Label()})
}

// handleEntityDetail renders one entity with its roster.
func handleEntityDetail(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	entityType, err := entity.ParseType(r.PathValue("type"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	outcome := navigation.Resolve(navigation.Request{
		Role:        sess.Role,
		Page:        navigation.PageDetail,
		EntityType:  entityType,
		RequestedID: r.PathValue("id"),
	})
	if outcome.Kind != navigation.KindLoadDetail {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	query := projections.GetEntityDetailQuery{EntityType: outcome.EntityType, EntityID: outcome.EntityID, Token: sess.Token}
	result := projections.QueryGetEntityDetail(r.Context(), query, projections.GetEntityDetailDeps{Directory: directory})

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}
	renderTemplate(w, r, "entity_detail.html", map[string]any{
		"Entity":     result.Entity,
		"Members":    result.Members,
		"LoadFailed": result.LoadFailed,
	})
}

// handleSelectEntity records a row selection and navigates to the chosen
// entity in one request.
func handleSelectEntity(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	entityType, err := entity.ParseType(r.PostFormValue("type"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	input := orchestrators.SelectEntityInput{
		AccountID:  sess.UserID,
		Role:       sess.Role,
		EntityType: entityType,
		EntityID:   r.PostFormValue("id"),
	}
	outcome, err := orchestrators.ExecuteSelectEntity(r.Context(), input, orchestrators.SelectEntityDeps{SelectionStore: stores.SelectionStore})
	if err != nil || outcome.Kind != navigation.KindLoadDetail {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/entities/"+string(outcome.EntityType)+"/"+outcome.EntityID, http.StatusSeeOther)
}

// handleAddMember links an existing Movesbook user into the entity. A
// backend rejection re-renders the form with the message inline and the
// username preserved; a success shows the server's refreshed roster.
func handleAddMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	entityType, err := entity.ParseType(r.PathValue("type"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	entityID := r.PathValue("id")

	outcome := navigation.Resolve(navigation.Request{
		Role:        sess.Role,
		Page:        navigation.PageDetail,
		EntityType:  entityType,
		RequestedID: entityID,
	})
	if outcome.Kind != navigation.KindLoadDetail {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	creds := membership.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}

	input := orchestrators.AddMemberInput{
		EntityType:  entityType,
		EntityID:    entityID,
		Credentials: creds,
		BearerToken: sess.Token,
	}
	deps := orchestrators.AddMemberDeps{Directory: directory, EmailSender: emailSender}

	result, err := orchestrators.ExecuteAddMember(r.Context(), input, deps)
	if err != nil {
		// The orchestrator performs no roster refetch on rejection. The HTML
		// branch still loads current state because a full page must be painted.
		if !isHTMLRequest(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		query := projections.GetEntityDetailQuery{EntityType: entityType, EntityID: entityID, Token: sess.Token}
		current := projections.QueryGetEntityDetail(r.Context(), query, projections.GetEntityDetailDeps{Directory: directory})
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "entity_detail.html", map[string]any{
			"Entity":      current.Entity,
			"Members":     current.Members,
			"LoadFailed":  current.LoadFailed,
			"AddError":    err.Error(),
			"AddUsername": creds.Username,
		})
		return
	}

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result.Detail)
		return
	}
	renderTemplate(w, r, "entity_detail.html", map[string]any{
		"Entity":     result.Detail.Entity,
		"Members":    result.Detail.Members,
		"AddSuccess": true,
	})
}

// handlePerf returns a JSON snapshot of recent request and query timings.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	snap := perfCollector.Snapshot(time.Now().Add(-15*time.Minute), 20)
	writeJSON(w, http.StatusOK, snap)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/auth"
	"github.com/rgrenier/folio/pkg/schema"
	"github.com/rgrenier/folio/pkg/storage"
	"github.com/rgrenier/folio/pkg/transport"
)

// handleListNavs handles GET /navs. Public.
func (h *Handlers) handleListNavs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(listNavsSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourceNavigation, Action: auth.ActionRead}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	navs, total, err := h.store.ListNavigations(ctx, listOptionsFrom(values))
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "listing navigation menus", err))
		return
	}

	if navs == nil {
		navs = []api.NavigationMenu{}
	}
	transport.WriteResult(w, http.StatusOK, listResult{Results: navs, Total: total})
}

// handleGetNav handles GET /navs/{navID}. Public.
func (h *Handlers) handleGetNav(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "navID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(getNavSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourceNavigation, Action: auth.ActionRead}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	nav, err := h.store.NavigationByID(ctx, values.Int(schema.Params, "navID"))
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "fetching navigation menu", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, nav)
}

// handleCreateNav handles POST /navs. Admin or manager.
func (h *Handlers) handleCreateNav(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(createNavSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourceNavigation, Action: auth.ActionCreate, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	pages, err := marshalPagesValue(values.Raw(schema.Body, "pages"))
	if err != nil {
		transport.WriteError(w, h.serverError(ctx, "encoding pages value", err))
		return
	}

	nav, err := h.store.CreateNavigation(ctx, &api.NavigationMenu{
		Name:  values.String(schema.Body, "name"),
		Pages: pages,
	})
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "creating navigation menu", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, nav)
}

// handleUpdateNav handles PATCH /navs/{navID}. Admin or manager.
func (h *Handlers) handleUpdateNav(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "navID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(updateNavSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourceNavigation, Action: auth.ActionUpdate, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	var patch storage.NavigationPatch

	if values.Has(schema.Body, "name") {
		name := values.String(schema.Body, "name")
		patch.Name = &name
	}
	if values.Has(schema.Body, "pages") {
		pages, err := marshalPagesValue(values.Raw(schema.Body, "pages"))
		if err != nil {
			transport.WriteError(w, h.serverError(ctx, "encoding pages value", err))
			return
		}
		patch.Pages = pages
	}

	nav, err := h.store.UpdateNavigation(ctx, values.Int(schema.Params, "navID"), patch)
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "updating navigation menu", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, nav)
}

// handleDeleteNav handles DELETE /navs/{navID}. Admin or manager.
func (h *Handlers) handleDeleteNav(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "navID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(deleteNavSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	navID := values.Int(schema.Params, "navID")

	op := auth.Operation{Resource: auth.ResourceNavigation, Action: auth.ActionDelete, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	if err := h.store.DeleteNavigation(ctx, navID); err != nil {
		transport.WriteError(w, h.storeError(ctx, "deleting navigation menu", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, navID)
}

// marshalPagesValue re-encodes the client-supplied pages value to the
// opaque JSON stored with the menu.
func marshalPagesValue(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

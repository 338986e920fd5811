// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"biocms/internal/models"
	"biocms/internal/response"
	"biocms/internal/service"
)

// --- Categories ---

// CategoriesList returns the full category tree, inactive nodes included
// unless ?active=true.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.taxonomy.ListCategories(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"categories": cats})
}

// CategoryGet returns one category with its subcategories.
func (a *Admin) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	c, err := a.taxonomy.GetCategory(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"category": c})
}

// CategoryCreate creates a category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateNode(&in.Name, &in.Slug, in.Description); err != nil {
		response.FromError(w, r, err)
		return
	}
	c, err := a.taxonomy.CreateCategory(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Created(w, response.Fields{"category": c})
}

// CategoryUpdate applies a partial update to a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.CategoryPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := validateNode(p.Name, p.Slug, p.Description); err != nil {
		response.FromError(w, r, err)
		return
	}
	c, err := a.taxonomy.UpdateCategory(r.Context(), id, p)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"category": c})
}

// CategoryDelete deletes a category and its subcategories. Content items
// that referenced them are kept with the references cleared.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := a.taxonomy.DeleteCategory(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{
		"subcategories_deleted": res.SubcategoriesDeleted,
		"items_detached":        res.ItemsDetached,
	})
}

type reorderRequest struct {
	Items []models.ReorderItem `json:"items"`
}

// CategoriesReorder sets order_index on several categories at once.
func (a *Admin) CategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		response.FromError(w, r, &service.MissingFieldError{Field: "items"})
		return
	}
	if err := a.taxonomy.ReorderCategories(r.Context(), req.Items); err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"updated": len(req.Items)})
}

// --- Subcategories ---

// SubcategoriesList returns the subcategories of the category in
// ?category_id=.
func (a *Admin) SubcategoriesList(w http.ResponseWriter, r *http.Request) {
	categoryID, err := optionalID(r.URL.Query().Get("category_id"), "category_id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if categoryID == nil {
		response.FromError(w, r, &service.MissingFieldError{Field: "category_id"})
		return
	}
	subs, err := a.taxonomy.ListSubcategories(r.Context(), *categoryID, r.URL.Query().Get("active") == "true")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"subcategories": subs})
}

// SubcategoryGet returns one subcategory.
func (a *Admin) SubcategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sc, err := a.taxonomy.GetSubcategory(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, response.Fields{"subcategory": sc})
}

// SubcategoryCreate creates a subcategory under an existing category.
func (a *Admin) SubcategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in service.SubcategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateNode(&in.Name, &in.Slug, in.Description); err != nil {
		response.FromError(w, r, err)
		return
	}
	sc, err := a.taxonomy.CreateSubcategory(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Created(w, response.Fields{"subcategory": sc})
}

// SubcategoryUpdate applies a partial update; category_id re-parents.
func (a *Admin) SubcategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.SubcategoryPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := validateNode(p.Name, p.Slug, p.Description); err != nil {
		response.FromError(w, r, err)
		return
	}
	sc, err := a.taxonomy.UpdateSubcategory(r.Context(), id, p)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"subcategory": sc})
}

// SubcategoryDelete deletes a subcategory and clears item references to it.
func (a *Admin) SubcategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	detached, err := a.taxonomy.DeleteSubcategory(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"items_detached": detached})
}

// SubcategoriesReorder sets order_index on several subcategories at once.
func (a *Admin) SubcategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		response.FromError(w, r, &service.MissingFieldError{Field: "items"})
		return
	}
	if err := a.taxonomy.ReorderSubcategories(r.Context(), req.Items); err != nil {
		response.FromError(w, r, err)
		return
	}
	a.mutated(r)
	response.Success(w, response.Fields{"updated": len(req.Items)})
}

package admin

import (
	"database/sql"
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jsweb-dev/jsweb/internal/orm"
)

type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

func (api *API) handleResourceList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"resources": api.db.Registry().Names(),
	})
}

func (api *API) handleList(w http.ResponseWriter, r *http.Request) {
	resource, err := api.lookupResource(r)
	if err != nil {
		writeError(w, err)
		return
	}

	slice := reflect.New(reflect.SliceOf(reflect.TypeOf(resource.Model)))
	limit, offset := parsePaging(r)

	total, err := api.db.Bun().NewSelect().
		Model(slice.Interface()).
		Limit(limit).
		Offset(offset).
		Order("id ASC").
		ScanAndCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items: slice.Elem().Interface(),
		Total: total,
	})
}

func (api *API) handleGet(w http.ResponseWriter, r *http.Request) {
	resource, err := api.lookupResource(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := parseRecordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record := newInstance(resource)
	if err := api.db.Bun().NewSelect().
		Model(record).
		Where("id = ?", id).
		Limit(1).
		Scan(r.Context()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, &orm.NotFoundError{Resource: resource.Name, Key: id.String()})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	resource, err := api.lookupResource(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record := newInstance(resource)
	if err := decodeJSON(r, record); err != nil {
		writeError(w, badRequest("invalid JSON payload: "+err.Error()))
		return
	}

	if entity, ok := record.(orm.Entity); ok {
		if entity.RecordID() == uuid.Nil {
			entity.SetRecordID(uuid.New())
		}
	}
	touch(record)

	if _, err := api.db.Bun().NewInsert().
		Model(record).
		Exec(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	api.logger.Info("admin record created", "resource", resource.Name)
	writeJSON(w, http.StatusCreated, record)
}

func (api *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	resource, err := api.lookupResource(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := parseRecordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record := newInstance(resource)
	entity, ok := record.(orm.Entity)
	if !ok {
		writeError(w, badRequest("resource "+resource.Name+" is not editable"))
		return
	}

	if err := api.db.Bun().NewSelect().
		Model(record).
		Where("id = ?", id).
		Limit(1).
		Scan(r.Context()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, &orm.NotFoundError{Resource: resource.Name, Key: id.String()})
			return
		}
		writeError(w, err)
		return
	}

	if err := decodeJSON(r, record); err != nil {
		writeError(w, badRequest("invalid JSON payload: "+err.Error()))
		return
	}
	entity.SetRecordID(id)
	touch(record)

	if _, err := api.db.Bun().NewUpdate().
		Model(record).
		WherePK().
		Exec(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	api.logger.Info("admin record updated", "resource", resource.Name, "id", id.String())
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	resource, err := api.lookupResource(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := parseRecordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := api.db.Bun().NewDelete().
		Model(newInstance(resource)).
		Where("id = ?", id).
		Exec(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		writeError(w, &orm.NotFoundError{Resource: resource.Name, Key: id.String()})
		return
	}

	api.logger.Info("admin record deleted", "resource", resource.Name, "id", id.String())
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *API) lookupResource(r *http.Request) (orm.Resource, error) {
	name := r.PathValue("resource")
	resource, ok := api.db.Registry().Lookup(name)
	if !ok {
		return orm.Resource{}, &orm.NotFoundError{Resource: "resource", Key: name}
	}
	return resource, nil
}

func parseRecordID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, badRequest("invalid record id")
	}
	return id, nil
}

func newInstance(resource orm.Resource) any {
	return reflect.New(reflect.TypeOf(resource.Model).Elem()).Interface()
}

func touch(record any) {
	if touchable, ok := record.(interface{ Touch(time.Time) }); ok {
		touchable.Touch(time.Now().UTC())
	}
}

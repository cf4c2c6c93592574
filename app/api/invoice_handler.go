package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"nfeditor/metrics"
	"nfeditor/nfe"
	"nfeditor/report"
	"nfeditor/store"
	"nfeditor/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const fieldIssuerName = "issuer_name"

type InvoiceHandler struct {
	store   store.DBStorer
	files   *FileHandler
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewInvoiceHandler(s store.DBStorer, files *FileHandler, m *metrics.Metrics) *InvoiceHandler {
	return &InvoiceHandler{
		store:   s,
		files:   files,
		metrics: m,
		logger:  slog.Default().With("component", "invoice"),
	}
}

// HandleUpload reads the uploaded NF-e, records it and returns the
// snapshot together with the encoded document for the edit round trip.
func (h *InvoiceHandler) HandleUpload(c *fiber.Ctx) error {
	text, filename, err := readFormFile(c, "xml_file")
	if err != nil {
		return err
	}

	snap, err := h.extract(text)
	if err != nil {
		return err
	}

	id, err := h.record(c.UserContext(), snap, types.SourceUpload, filename)
	if err != nil {
		return err
	}
	h.logger.Info("invoice uploaded", "id", id, "file", filename, "number", snap.InvoiceNumber, "items", len(snap.LineItems))

	return c.JSON(types.UploadResponse{
		ID:       id,
		XMLStr:   types.EncodeDocument(text),
		Snapshot: snap,
	})
}

// HandleSnapshot decodes the xml_str query parameter and returns the
// fields shown on the edit form.
func (h *InvoiceHandler) HandleSnapshot(c *fiber.Ctx) error {
	encoded := c.Query("xml_str")
	if encoded == "" {
		return ErrNoDocument()
	}

	text, err := types.DecodeDocument(encoded)
	if err != nil {
		return NewError(fiber.StatusBadRequest, err.Error())
	}

	snap, err := h.extract(text)
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

// HandleEdit applies the submitted edits, stages the new document for
// download and records the change.
func (h *InvoiceHandler) HandleEdit(c *fiber.Ctx) error {
	var params types.EditParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	out, err := nfe.Mutate(params.XMLData, params.Edits())
	h.metrics.RecordMutation(err)
	if err != nil {
		return err
	}

	if err := h.files.Stage(out); err != nil {
		return err
	}

	id, err := h.recordEdit(c.UserContext(), params.XMLData, out)
	if err != nil {
		return err
	}

	return c.JSON(types.EditResponse{
		ID:       id,
		XMLData:  out,
		XMLSaved: true,
	})
}

func (h *InvoiceHandler) HandleEdits(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	edits, err := h.store.ListEdits(c.UserContext(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound(id, "invoice")
	}
	if err != nil {
		return err
	}
	return c.JSON(edits)
}

// HandleSummary renders the PDF summary of a document sent either as the
// xml_file upload or as xml_data in the body.
func (h *InvoiceHandler) HandleSummary(c *fiber.Ctx) error {
	text, _, err := readFormFile(c, "xml_file")
	if err != nil {
		var params types.SummaryParams
		if c.BodyParser(&params) != nil {
			return ErrBadRequest()
		}
		if errors := types.Validate(&params); len(errors) > 0 {
			return types.NewValidationError(errors)
		}
		text = params.XMLData
	}

	snap, err := h.extract(text)
	if err != nil {
		return err
	}

	pdf, err := report.Summary(snap)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment("nfe-" + snap.InvoiceNumber + ".pdf")
	return c.Send(pdf)
}

func (h *InvoiceHandler) extract(text string) (nfe.Snapshot, error) {
	snap, err := nfe.Extract(text)
	h.metrics.RecordExtraction(len(snap.LineItems), err)
	return snap, err
}

// record upserts the history row for snap, bumping the version of an
// already known invoice.
func (h *InvoiceHandler) record(ctx context.Context, snap nfe.Snapshot, source types.InvoiceSource, path string) (uuid.UUID, error) {
	rec := types.NewInvoiceRecord(snap, source, path, time.Now().UTC())

	prev, err := h.store.GetInvoiceByID(ctx, rec.ID)
	switch {
	case err == nil:
		rec.CreatedAt = prev.CreatedAt
		rec.Version = prev.Version + 1
		if rec.SourcePath == "" {
			rec.Source = prev.Source
			rec.SourcePath = prev.SourcePath
		}
	case !errors.Is(err, sql.ErrNoRows):
		return uuid.Nil, err
	}

	return rec.ID, h.store.SaveInvoice(ctx, rec)
}

// recordEdit stores the issuer-name change between before and after.
// Documents that cannot be extracted are edited but not recorded.
func (h *InvoiceHandler) recordEdit(ctx context.Context, before, after string) (uuid.UUID, error) {
	old, err := nfe.Extract(before)
	if err != nil {
		h.logger.Debug("edited document has no snapshot, history skipped", "error", err)
		return uuid.Nil, nil
	}
	updated, err := h.extract(after)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := h.record(ctx, updated, types.SourceUpload, "")
	if err != nil {
		return uuid.Nil, err
	}

	edit := types.EditRecord{
		ID:        uuid.New(),
		InvoiceID: id,
		Field:     fieldIssuerName,
		OldValue:  old.IssuerName,
		NewValue:  updated.IssuerName,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.SaveEdit(ctx, edit); err != nil {
		return uuid.Nil, err
	}
	h.logger.Info("invoice edited", "id", id, "field", edit.Field, "old", edit.OldValue, "new", edit.NewValue)
	return id, nil
}

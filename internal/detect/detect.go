// Package detect locates existing AcroForm fields in a PDF and converts
// them into placement fields so an uploaded document with a prepared form
// starts out populated instead of blank.
package detect

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pdfforms/fieldplacer/internal/field"
	"github.com/pdfforms/fieldplacer/internal/geometry"
)

// Detector scans a PDF's AcroForm dictionary for text, checkbox and radio
// fields. Field kinds that have no placement equivalent (choice, signature,
// pushbutton) are skipped.
type Detector struct {
	debugMode bool
}

// NewDetector creates a Detector. With debugMode set it prints per-field
// progress to stdout.
func NewDetector(debugMode bool) *Detector {
	return &Detector{debugMode: debugMode}
}

// DetectFields reads the document and returns one placement field per
// AcroForm root field. Geometry is reported in document space with the
// page's bottom-left corner as origin, matching the coordinates stored
// in the PDF itself.
func (d *Detector) DetectFields(rs io.ReadSeeker) ([]field.Field, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return d.detectFromContext(ctx)
}

func (d *Detector) detectFromContext(ctx *model.Context) ([]field.Field, error) {
	var fields []field.Field

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		if d.debugMode {
			fmt.Println("No AcroForm dictionary found in document")
		}
		return fields, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return fields, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return fields, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	pageByAnnot := d.annotationPages(ctx)

	for i, fieldRef := range fieldsArray {
		f, err := d.processField(ctx, fieldRef, i, pageByAnnot)
		if err != nil {
			if d.debugMode {
				fmt.Printf("Error processing field %d: %v\n", i, err)
			}
			continue
		}
		if f != nil {
			fields = append(fields, *f)
		}
	}

	return fields, nil
}

// annotationPages maps widget annotation object numbers to 0-based page
// indexes by walking each page's Annots array.
func (d *Detector) annotationPages(ctx *model.Context) map[int]int {
	pages := make(map[int]int)

	for p := 1; p <= ctx.PageCount; p++ {
		pageDict, _, _, err := ctx.PageDict(p, false)
		if err != nil || pageDict == nil {
			continue
		}

		annotsObj, found := pageDict.Find("Annots")
		if !found {
			continue
		}

		annots, err := ctx.DereferenceArray(annotsObj)
		if err != nil {
			continue
		}

		for _, annot := range annots {
			if ir, ok := annot.(types.IndirectRef); ok {
				pages[ir.ObjectNumber.Value()] = p - 1
			}
		}
	}

	return pages
}

func (d *Detector) processField(ctx *model.Context, fieldObj types.Object, index int, pageByAnnot map[int]int) (*field.Field, error) {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil, nil
	}

	fieldType, ok := d.fieldType(ctx, fieldDict)
	if !ok {
		return nil, nil
	}

	f := &field.Field{
		Type:        fieldType,
		SignerIndex: -1,
	}

	if nameObj, found := fieldDict.Find("T"); found {
		if name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			f.FieldName = name
		}
	}
	if f.FieldName == "" {
		f.FieldName = fmt.Sprintf("field_%d", index)
	}
	f.Label = f.FieldName

	// A radio group's kids all share the parent field's name.
	if fieldType == field.TypeRadio {
		f.GroupName = f.FieldName
	}

	if valueObj, found := fieldDict.Find("V"); found {
		f.CurrentValue = d.fieldValue(ctx, valueObj, fieldType)
	}

	rect, page, err := d.fieldBounds(ctx, fieldObj, fieldDict, pageByAnnot)
	if err != nil {
		return nil, err
	}
	f.Rect = rect
	f.Page = page

	if d.debugMode {
		fmt.Printf("Detected field: %s (type: %s, page: %d)\n", f.FieldName, f.Type, f.Page)
	}

	return f, nil
}

// fieldType resolves the FT entry, walking the Parent chain for inherited
// types. The second return is false for kinds placement does not model.
func (d *Detector) fieldType(ctx *model.Context, fieldDict types.Dict) (field.Type, bool) {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return d.fieldType(ctx, parentDict)
			}
		}
		return "", false
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return "", false
	}

	switch ftName {
	case "Btn":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				flagValue := *flags
				if (flagValue & (1 << 15)) != 0 { // Bit 16: Radio
					return field.TypeRadio, true
				}
				if (flagValue & (1 << 16)) != 0 { // Bit 17: Pushbutton
					return "", false
				}
			}
		}
		return field.TypeCheckbox, true
	case "Tx":
		return field.TypeText, true
	default:
		return "", false
	}
}

// fieldValue renders the V entry as the string form the fill overlay
// understands: raw text for text fields, "true"/"false" for checkboxes
// and the selected export name for radio groups.
func (d *Detector) fieldValue(ctx *model.Context, valueObj types.Object, fieldType field.Type) string {
	switch fieldType {
	case field.TypeText:
		if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			return val
		}
	case field.TypeCheckbox:
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
			if name == "Off" {
				return "false"
			}
			return "true"
		}
	case field.TypeRadio:
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil && name != "Off" {
			return string(name)
		}
	}
	return ""
}

// fieldBounds extracts the widget rectangle and its page. For fields whose
// widget annotation lives in a Kids array the first kid is used, matching
// how a single placement rectangle represents the whole group.
func (d *Detector) fieldBounds(ctx *model.Context, fieldObj types.Object, fieldDict types.Dict, pageByAnnot map[int]int) (geometry.Rect, int, error) {
	if rectObj, found := fieldDict.Find("Rect"); found {
		rect, err := d.parseRect(ctx, rectObj)
		if err != nil {
			return geometry.Rect{}, 0, err
		}
		return rect, d.annotPage(fieldObj, pageByAnnot), nil
	}

	if kidsObj, found := fieldDict.Find("Kids"); found {
		kids, err := ctx.DereferenceArray(kidsObj)
		if err != nil || len(kids) == 0 {
			return geometry.Rect{}, 0, fmt.Errorf("field has no widget annotation")
		}
		widgetDict, err := ctx.DereferenceDict(kids[0])
		if err != nil || widgetDict == nil {
			return geometry.Rect{}, 0, fmt.Errorf("failed to dereference widget: %w", err)
		}
		rectObj, found := widgetDict.Find("Rect")
		if !found {
			return geometry.Rect{}, 0, fmt.Errorf("widget annotation has no Rect")
		}
		rect, err := d.parseRect(ctx, rectObj)
		if err != nil {
			return geometry.Rect{}, 0, err
		}
		return rect, d.annotPage(kids[0], pageByAnnot), nil
	}

	return geometry.Rect{}, 0, fmt.Errorf("field has no Rect or Kids entry")
}

func (d *Detector) annotPage(obj types.Object, pageByAnnot map[int]int) int {
	if ir, ok := obj.(types.IndirectRef); ok {
		if page, ok := pageByAnnot[ir.ObjectNumber.Value()]; ok {
			return page
		}
	}
	return 0
}

// parseRect converts a PDF Rect array [llx lly urx ury] into an
// origin-plus-size rectangle, tolerating swapped corners.
func (d *Detector) parseRect(ctx *model.Context, rectObj types.Object) (geometry.Rect, error) {
	rectArray, err := ctx.DereferenceArray(rectObj)
	if err != nil || len(rectArray) != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid Rect array")
	}

	coords := make([]float64, 4)
	for i, coord := range rectArray {
		if f, err := ctx.DereferenceNumber(coord); err == nil {
			coords[i] = f
		}
	}

	llx, lly, urx, ury := coords[0], coords[1], coords[2], coords[3]
	if urx < llx {
		llx, urx = urx, llx
	}
	if ury < lly {
		lly, ury = ury, lly
	}

	return geometry.Rect{
		X:      geometry.Round2(llx),
		Y:      geometry.Round2(lly),
		Width:  geometry.Round2(urx - llx),
		Height: geometry.Round2(ury - lly),
	}, nil
}

// ImportDetected adds detected fields to a store. Fields that fail
// validation or collide with an existing name are skipped rather than
// aborting the import. It returns the number added and the names skipped.
func ImportDetected(s *field.Store, detected []field.Field, pageCount int) (int, []string) {
	added := 0
	var skipped []string

	for _, f := range detected {
		if err := s.Add(f, pageCount); err != nil {
			skipped = append(skipped, f.FieldName)
			continue
		}
		added++
	}

	return added, skipped
}

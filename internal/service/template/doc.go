// Package template implements saving editor submissions as templates.
//
// Content is instrumented by instrument.Editor before it is stored, so the
// persisted body is exactly what the preview pane annotated. A revision of an
// existing template is stored as a new row whose version follows its
// parent's. When an archiver is configured each saved template is also
// copied to object storage.
package template

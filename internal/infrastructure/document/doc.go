// Package document renders SAFE agreements from word-processor templates.
//
// This package contains:
//   - TemplateStore holding one .docx template per investment variant, embedded in
//     the binary with an optional external directory override
//   - DocxRenderer which substitutes {placeholder} names in the template parts and
//     repackages the container deterministically
//   - ExtractHTML which turns a .docx body into simple HTML for PDF conversion
//
// Example usage:
//
//	store, err := NewTemplateStore(&TemplateStoreConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	renderer := NewDocxRenderer(store)
//	doc, err := renderer.RenderTerms(ctx, investment.VariantDiscount, formatted)
package document

// Package docx renders parsed lesson blocks into a WordprocessingML document
// and serializes it as a .docx package.
//
// Render maps blocks onto the package's own model (sections, paragraphs,
// runs, numbering). Build writes that model as the minimal set of OOXML
// parts Word, LibreOffice and Google Docs need to open the file.
package docx

// Package openapi imports component schemas from OpenAPI 3 documents as raw
// form definitions. Documents are read from files, an fs.FS or HTTP and parsed
// with kin-openapi.
package openapi

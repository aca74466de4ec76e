// Package catalog is the HTTP client for a presentation server's page endpoints.
//
// # Endpoints
//
//	GET /pages          {"pages":[{"type":"command"|"code"|"image"|"text"}, ...]}
//	GET /pages/{index}  Text: {"content":[line, ...]}; Code/Image: markup fragment;
//	                    Command: fragment for the embedded view
//	GET /command/{index} caption text
//
// # Failure Model
//
// The page list is a one-shot bootstrap: FetchAll logs failures, leaves the
// catalog empty and does not retry. Content and label requests are made once
// per visit. Failures are returned as *CatalogError values which can be
// inspected with IsNetworkError, IsHTTPError, IsParseError and IsOutOfRange.
package catalog

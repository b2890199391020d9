// Package httputil provides HTTP helpers for the preview server.
//
// # Overview
//
//   - [WriteJSON]: encode a value as an indented JSON response
//   - [WriteError]: map a structured error to a status code and JSON body
//   - [StatusFor]: the status code used for an error code
//   - [RequestLogger]: chi middleware that logs each request and reports it
//     to the registered [observability.HTTPHooks]
//
// # Errors
//
// Error codes from the errors package select the response status:
//
//   - INVALID_*: 400 Bad Request
//   - NOT_FOUND, FILE_NOT_FOUND, TOOL_NOT_FOUND: 404 Not Found
//   - BUSY: 409 Conflict
//   - UNSUPPORTED: 501 Not Implemented
//   - TIMEOUT: 504 Gateway Timeout
//
// Anything else is a 500 whose message is not shown to the client.
//
//	if err != nil {
//	    httputil.WriteError(w, r, err)
//	    return
//	}
//	httputil.WriteJSON(w, http.StatusOK, entries)
package httputil

// Package lazy holds record fields either as a decoded, ordered mapping or as
// the undecoded bytes they arrived in, decoding only when a field is touched.
//
// A Container that was never read hands its original bytes back unchanged.
// Once decoded, those bytes are kept and reused until the first mutation.
// An undecodable payload never fails an ordinary accessor: the container logs
// a warning and behaves as if it were empty. Read is the strict path for
// callers that need to know.
//
// Containers are not safe for concurrent use.
package lazy

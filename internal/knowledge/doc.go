// Package knowledge manages knowledge-base documents.
//
// Store is the document contract: list, upload, and delete per knowledge
// base. HTTPClient talks to a remote document service and SQLiteStore keeps
// documents locally. Panel is the display model on top of a Store; its
// failures never reach conversation state.
package knowledge

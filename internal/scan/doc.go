// Package scan owns the result-resolution pipeline: selecting the best
// candidate from a search response, reconciling it with catalog
// metadata, and recording the outcome in the profile store.
//
// SelectBest and Assemble are pure; the Scanner composes them with the
// external clients and the store. Selection and assembly errors reach
// the caller, collaborator failures fail the scan attempt before any
// state is written, and persistence problems never surface past the
// profile store.
package scan

// Package orchestrate highlights the code blocks of an HTML document
// with the help of a highlight worker.
//
// An [Orchestrator] finds the elements that need highlighting,
// sends one request to the worker for each unit of code it finds,
// and applies each response to the element that asked for it.
// Every unit is bounded by a timeout,
// so a worker that never answers cannot stall a run:
// units that time out are left as they were.
package orchestrate

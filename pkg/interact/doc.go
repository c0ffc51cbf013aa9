// Package interact is the render and interaction layer of the chart.
//
// A [View] is loaded with the people, relationships, visible relationship
// types and canvas size supplied by the collaborator that owns the tree.
// Loading resolves generations, computes the initial placement and starts
// a fresh simulation. The host loop then calls [View.Advance] once per
// frame and draws [View.Scene].
//
// # Gestures
//
// A drag moves through Idle → Dragging → (ProximityArmed) → Idle. Starting
// a drag pins the node and reheats the simulation. Every move recomputes
// the nearest other node within the proximity threshold; releasing the
// node while a candidate is armed emits ProximityDrop(dragged, candidate).
// A gesture that ends without moving counts as a click.
//
// The view never changes the tree itself. Selection, legend toggles and
// proximity drops are reported to a [Handler]; the collaborator decides
// what to do and calls [View.Load] with the new data.
//
// # Coordinates
//
// Gestures take world coordinates. The zoom [Transform] maps world to
// screen and is kept across loads; use [View.ScreenToWorld] to convert
// pointer positions.
package interact

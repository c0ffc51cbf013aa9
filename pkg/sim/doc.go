// Package sim is the force simulation that settles node positions.
//
// A [Simulation] owns its nodes. Each call to [Simulation.Tick] cools the
// energy level (alpha) toward its target, lets every [Force] read the
// positions left by the previous tick and accumulate velocity changes,
// then integrates velocities and positions once. No force observes another
// force's contribution within the same tick.
//
// The default force set combines:
//
//   - link: pulls related nodes toward a per-type separation
//   - many-body: every node repels every other node
//   - collide: pushes apart overlapping discs, several passes per tick
//   - position x/y: pulls nodes toward their targets; y holds the
//     generation band and dominates, x keeps the initial ordering
//
// Callers drive time explicitly. [Simulation.Advance] turns elapsed wall
// time into a bounded number of fixed ticks, which suits any host loop (a
// terminal tick message, a timer, a render callback). [Simulation.Settle]
// runs to rest for headless use.
//
// Dragging is expressed through pins: [Simulation.Pin] writes a per-node
// override slot that the integrator honors, and [Simulation.Unpin] clears
// it. Pins are the only state a caller mutates.
package sim

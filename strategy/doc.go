// Package strategy generates candidate values for typed parameters.
//
// Every generator takes an explicit Source so that runs can be reproduced
// from a seed. A draw follows one of three paths:
//
//	fixtures present   sample uniformly from the fixture sequence
//	edge (10%)         pick from the fixed edge set of the domain
//	random (90%)       uniform value from the whole domain
//
// Column builds a full column of candidates for one parameter up front:
// the edge set first, then draws, then a Fisher-Yates shuffle so that edge
// cases of different parameters do not line up by row.
package strategy

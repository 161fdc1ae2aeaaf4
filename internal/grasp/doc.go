// Package grasp owns the per-step attach/detach decision for a simulated
// robot end-effector.
//
// Responsibilities: filtering collision contacts by participant identity,
// selecting a grasp candidate by proximity, contact or visual centring,
// computing the rigid attachment frame, and driving the single-attachment
// state machine through the physics collaborator.
//
// The package is single-threaded and step-synchronous: one decision per
// simulation tick, strictly serialised with the collaborator's stepping.
// Gaze selection temporarily relocates scene objects while rendering;
// callers must guarantee no concurrent mutation of object transforms
// while a step is in flight.
//
// Dependency rule: grasp may depend on geom, vision, sim and robots, but
// never on storage or the cmd layer.
package grasp

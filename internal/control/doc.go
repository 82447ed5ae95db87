// Package control provides the PID feedback primitive used by every
// closed-loop motion on the chassis.
//
// A [PID] maps an error sample to a bounded output once per control cycle:
//
//   - the integral is cleared when the error leaves IntegralTolerance or,
//     optionally, when the error crosses zero
//   - the derivative is the raw per-cycle error difference
//   - a settle timer accumulates CycleTime while |error| < SettleTolerance
//
// # Usage
//
//	pid := control.NewPID(gains)
//	for !pid.IsSettled() {
//		out := pid.Output(target - measured)
//		// command actuators, wait gains.CycleTime
//	}
//
// PID implements GetParams/SetParam for live tuning.
package control

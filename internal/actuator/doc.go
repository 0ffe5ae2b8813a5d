// Package actuator delivers presses and swipes to the device a frame came
// from.
//
// Three implementations are provided:
//   - Desktop drives the local mouse through robotgo.
//   - Serial speaks a line protocol to a microcontroller that emulates a
//     touch screen or HID mouse.
//   - Recorder only records and logs, for dry runs and tests.
//
// All of them satisfy matcher.Actuator.
package actuator

// Package viz draws the field in the terminal: a braille canvas with the
// planned path, the driven trail and the robot, plus the lipgloss styles
// shared by the CLI and the watch view.
package viz

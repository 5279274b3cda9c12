// Package assignment holds the task-targeting rules shared by the teacher and
// student dashboards: which tasks a student sees, how urgent a deadline is,
// which submission counts for a task, and how a roster splits into groups.
//
// Everything here is a pure function of its inputs. Callers pass the current
// time explicitly.
package assignment

// Package analytics computes ranked summary tables over quiz participation
// data: voter activity, earliest responders, answer correctness, question
// participation, response latency and temporal distribution.
//
// Every function is pure over its inputs and returns freshly allocated rows.
// Top-N requests are clamped to the number of available rows; ties keep the
// order in which their group key was first seen in the input.
package analytics

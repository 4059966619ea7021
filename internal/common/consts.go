package common

// UnknownStr is the String() result for enum values outside their range.
const UnknownStr = "unknown"

// GeneratedHeader is the first line of every file written by the generator.
const GeneratedHeader = "// Code generated by selfref-generator. DO NOT EDIT."

// OutputSuffix is appended to the snake-cased aggregate name to form the output filename.
const OutputSuffix = "_selfref.go"

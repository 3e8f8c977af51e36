/*
Package css holds the resolved style values the engine consumes: option
types for z-index and opacity whose zero value means "unset", position
and color enums, float64 geometry, and 2D affine transforms.

Parsing here is deliberately small. Style is a bag of raw declaration
strings with typed getters; the getters and the Parse functions accept
the handful of value forms the engine cares about and report anything
else as unset rather than guessing.
*/
package css

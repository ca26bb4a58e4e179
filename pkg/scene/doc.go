// Package scene holds the named NURBS shapes produced by evaluating a
// scene script, together with their sampling defaults and validation.
package scene

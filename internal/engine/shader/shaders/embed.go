// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SolidVertexShader places instanced prototype vertices.
//
//go:embed solid.vert
var SolidVertexShader string

// SolidFragmentShader fills with the instance color.
//
//go:embed solid.frag
var SolidFragmentShader string

// OverlayVertexShader positions the debug text quad in clip space.
//
//go:embed overlay.vert
var OverlayVertexShader string

// OverlayFragmentShader samples the debug text texture.
//
//go:embed overlay.frag
var OverlayFragmentShader string

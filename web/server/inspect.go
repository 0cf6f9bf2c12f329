package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Index        int                    `json:"index"` // position in scene order, -1 on miss
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]float64             `json:"color"` // traced color in [0,1]
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"ambient":   mat.Phong.Ambient,
		"diffuse":   mat.Phong.Diffuse,
		"specular":  mat.Phong.Specular,
		"shininess": mat.Phong.Shininess,
	}

	switch mat.Kind {
	case material.Reflective:
		properties["reflectivity"] = mat.Reflectivity
	case material.Refractive:
		properties["refractiveIndex"] = mat.IOR
	case material.ReflectiveRefractive:
		properties["reflectivity"] = mat.Reflectivity
		properties["refractiveIndex"] = mat.IOR
	}
	return mat.Kind.String(), properties
}

// extractGeometryInfo describes a primitive's shape and surface color
func extractGeometryInfo(prim *geometry.Primitive, properties map[string]interface{}) string {
	properties["color"] = hexColor(prim.Color)
	if prim.Pattern.Enabled() {
		properties["pattern"] = prim.Pattern.Kind.String()
		properties["patternScale"] = prim.Pattern.Scale
	}

	switch prim.Kind {
	case geometry.KindSphere:
		properties["center"] = vecArray(prim.Sphere.Center)
		properties["radius"] = prim.Sphere.Radius
	case geometry.KindPlane:
		properties["planePoint"] = vecArray(prim.Plane.Point)
		properties["planeNormal"] = vecArray(prim.Plane.Normal)
	}
	return prim.Kind.String()
}

// handleInspect casts the primary ray through a pixel and reports what it hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	query := r.URL.Query()
	x, err := parseFloatParam(query, "x", float64(req.Width)/2, 0, float64(req.Width))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseFloatParam(query, "y", float64(req.Height)/2, 0, float64(req.Height))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	raytracer, err := renderer.NewSceneRaytracer(sceneObj, renderer.Config{Width: req.Width, Height: req.Height}, core.NopLogger{})
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ray, color := raytracer.TracePixel(x, y)
	response := InspectResponse{
		Index:      -1,
		Color:      vecArray(color),
		Properties: map[string]interface{}{},
	}

	if hit, ok := sceneObj.ClosestHit(ray); ok {
		response.Hit = true
		response.Index = hit.Index
		response.Point = vecArray(hit.Point)
		response.Normal = vecArray(hit.Normal)
		response.Distance = hit.Distance
		response.MaterialType, response.Properties = extractMaterialInfo(hit.Primitive.Material)
		response.GeometryType = extractGeometryInfo(hit.Primitive, response.Properties)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	rgba := core.ToRGBA(c)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

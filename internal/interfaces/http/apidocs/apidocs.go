// Package apidocs publishes a Swagger 2.0 description of the mounted HTTP
// API and serves it with the swagger UI.
package apidocs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

const bearerScheme = "BearerAuth"

type Info struct {
	Title       string
	Description string
	Version     string
}

// Document is the subset of Swagger 2.0 the ledger API needs
type Document struct {
	Swagger             string                          `json:"swagger"`
	Info                DocumentInfo                    `json:"info"`
	Paths               map[string]map[string]Operation `json:"paths"`
	SecurityDefinitions map[string]SecurityScheme       `json:"securityDefinitions"`
}

type DocumentInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type Operation struct {
	Tags        []string              `json:"tags"`
	Summary     string                `json:"summary"`
	OperationID string                `json:"operationId"`
	Consumes    []string              `json:"consumes,omitempty"`
	Produces    []string              `json:"produces"`
	Parameters  []Parameter           `json:"parameters,omitempty"`
	Responses   map[string]Response   `json:"responses"`
	Security    []map[string][]string `json:"security,omitempty"`
}

type Parameter struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required"`
	Type     string  `json:"type,omitempty"`
	Schema   *Schema `json:"schema,omitempty"`
}

type Schema struct {
	Type string `json:"type"`
}

type Response struct {
	Description string `json:"description"`
}

type SecurityScheme struct {
	Type string `json:"type"`
	Name string `json:"name"`
	In   string `json:"in"`
}

// Build describes routes. Paths equal to or under one of public need no
// bearer token; every other operation does.
func Build(info Info, routes gin.RoutesInfo, public ...string) *Document {
	doc := &Document{
		Swagger: "2.0",
		Info:    DocumentInfo{Title: info.Title, Description: info.Description, Version: info.Version},
		Paths:   make(map[string]map[string]Operation),
		SecurityDefinitions: map[string]SecurityScheme{
			bearerScheme: {Type: "apiKey", Name: "Authorization", In: "header"},
		},
	}

	sorted := append(gin.RoutesInfo(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Method < sorted[j].Method
	})

	for _, rt := range sorted {
		if strings.HasPrefix(rt.Path, "/swagger") {
			continue
		}
		path, params := templatePath(rt.Path)
		op := Operation{
			Tags:        []string{tagOf(rt.Path)},
			Summary:     summaryOf(rt.Handler),
			OperationID: operationID(rt.Method, path),
			Produces:    []string{"application/json"},
			Parameters:  params,
			Responses:   responsesFor(rt.Method),
		}
		if rt.Method == http.MethodPost || rt.Method == http.MethodPut {
			op.Consumes = []string{"application/json"}
			op.Parameters = append(op.Parameters, Parameter{
				Name: "body", In: "body", Required: true, Schema: &Schema{Type: "object"},
			})
		}
		if !isPublic(rt.Path, public) {
			op.Security = []map[string][]string{{bearerScheme: {}}}
		}
		if doc.Paths[path] == nil {
			doc.Paths[path] = make(map[string]Operation)
		}
		doc.Paths[path][strings.ToLower(rt.Method)] = op
	}
	return doc
}

// templatePath turns /sales/:id into /sales/{id} and lists the parameters
func templatePath(path string) (string, []Parameter) {
	segments := strings.Split(path, "/")
	var params []Parameter
	for i, seg := range segments {
		if seg == "" || (seg[0] != ':' && seg[0] != '*') {
			continue
		}
		name := seg[1:]
		segments[i] = "{" + name + "}"
		params = append(params, Parameter{Name: name, In: "path", Required: true, Type: "string"})
	}
	return strings.Join(segments, "/"), params
}

// tagOf is the first segment after /api/<version>, "system" otherwise
func tagOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" {
		return parts[2]
	}
	return "system"
}

// summaryOf shortens "pkg/handler.(*SaleHandler).Create-fm" to
// "SaleHandler.Create".
func summaryOf(handler string) string {
	name := handler[strings.LastIndex(handler, "/")+1:]
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	return strings.NewReplacer("(*", "", ")", "").Replace(name)
}

func operationID(method, path string) string {
	r := strings.NewReplacer("/", "_", "{", "", "}", "", "-", "_")
	return strings.ToLower(method) + strings.TrimRight(r.Replace(path), "_")
}

func responsesFor(method string) map[string]Response {
	out := map[string]Response{
		"default": {Description: "Error envelope with code and message"},
	}
	if method == http.MethodPost {
		out["201"] = Response{Description: "Created"}
	} else {
		out["200"] = Response{Description: "OK"}
	}
	return out
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

type registered string

func (r registered) ReadDoc() string { return string(r) }

// Mount documents every route engine has at call time, registers the
// document with swag under instance and serves the UI at /swagger.
func Mount(engine *gin.Engine, instance string, info Info, public ...string) error {
	if swag.GetSwagger(instance) != nil {
		return fmt.Errorf("swagger instance %q already registered", instance)
	}
	data, err := json.Marshal(Build(info, engine.Routes(), public...))
	if err != nil {
		return fmt.Errorf("encode swagger document: %w", err)
	}
	swag.Register(instance, registered(data))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(instance)))
	return nil
}

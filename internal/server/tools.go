// internal/server/tools.go
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/render"
	"github.com/mitchellh/mapstructure"

	"mcp-meal-map/internal/models"
)

type toolHandler func(*protocol.CallToolRequest) (*protocol.CallToolResult, error)

type LookupSlotParams struct {
	Day  *int `json:"day" description:"Day number of the slot"`
	Hour *int `json:"hour" description:"Hour of day, 0-23"`
}

// extractParams decodes the request arguments into target. Numbers arrive
// as float64 from JSON, so decoding is weakly typed.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(req.Arguments); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	return nil
}

func (s *MealMapServer) registerTools() {
	s.tools = map[string]toolHandler{
		"get_frequency":        s.handleGetFrequency,
		"get_hourly_frequency": s.handleGetHourlyFrequency,
		"get_nutrition":        s.handleGetNutrition,
		"get_time_of_day":      s.handleGetTimeOfDay,
		"get_stats":            s.handleGetStats,
		"lookup_slot":          s.handleLookupSlot,
	}
	for name := range s.tools {
		s.logger.Debug("registered tool", slog.String("tool", name))
	}
}

// handleMCP dispatches a tool call to its handler.
func (s *MealMapServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		_ = render.Render(w, r, NewErrorResponse(NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("Invalid JSON: %v", err))))
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		_ = render.Render(w, r, NewErrorResponse(NewAPIError(http.StatusNotFound, ErrUnknownTool.ErrorCode, fmt.Sprintf("Unknown tool: %s", request.Name))))
		return
	}

	result, err := handler(&request)
	if err != nil {
		apiErr, ok := err.(*APIError)
		if !ok {
			s.logger.Error("tool call failed", slog.String("tool", request.Name), slog.String("error", err.Error()))
			apiErr = ErrInternalServer
		}
		_ = render.Render(w, r, NewErrorResponse(apiErr))
		return
	}

	render.JSON(w, r, result)
}

func (s *MealMapServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	render.JSON(w, r, map[string][]string{"tools": names})
}

func (s *MealMapServer) handleGetFrequency(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.session.Snapshot.Frequency())
}

func (s *MealMapServer) handleGetHourlyFrequency(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.session.Snapshot.HourlyFrequency())
}

func (s *MealMapServer) handleGetNutrition(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.session.Snapshot.Nutrition())
}

func (s *MealMapServer) handleGetTimeOfDay(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.session.Snapshot.TimeOfDay())
}

func (s *MealMapServer) handleGetStats(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.stats())
}

func (s *MealMapServer) handleLookupSlot(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LookupSlotParams
	if err := extractParams(req, &params); err != nil {
		return nil, InvalidParameter("arguments", err.Error())
	}
	if params.Day == nil {
		return nil, InvalidParameter("day", "is required")
	}
	if params.Hour == nil {
		return nil, InvalidParameter("hour", "is required")
	}

	return s.createJSONResponse(s.lookup(models.Key{Day: *params.Day, Hour: *params.Hour}))
}

func (s *MealMapServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			&protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}

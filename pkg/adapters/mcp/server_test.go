package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/rapidfire"
	"github.com/aretw0/rapidfire/pkg/adapters/memory"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Contents []struct {
			URI  string `json:"uri"`
			Text string `json:"text"`
		} `json:"contents"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type harness struct {
	t      *testing.T
	server *Server
	store  *memory.Store
	app    *rapidfire.App
	nextID int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStoreWith(ports.ContractProject())
	app, err := rapidfire.New(context.Background(), store, nil)
	require.NoError(t, err)
	app.Start(context.Background())
	t.Cleanup(func() { _ = app.Close() })

	h := &harness{t: t, server: NewServer(app), store: store, app: app}
	h.rpc("initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "1.0.0"},
	})
	return h
}

func (h *harness) rpc(method string, params any) rpcResponse {
	h.t.Helper()
	h.nextID++
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      h.nextID,
		"method":  method,
		"params":  params,
	})
	require.NoError(h.t, err)

	reply := h.server.mcpServer.HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(reply)
	require.NoError(h.t, err)

	var resp rpcResponse
	require.NoError(h.t, json.Unmarshal(raw, &resp), string(raw))
	return resp
}

func (h *harness) call(name string, args map[string]any) rpcResponse {
	h.t.Helper()
	return h.rpc("tools/call", map[string]any{"name": name, "arguments": args})
}

func (h *harness) text(resp rpcResponse) string {
	h.t.Helper()
	require.Nil(h.t, resp.Error)
	require.NotEmpty(h.t, resp.Result.Content)
	return resp.Result.Content[0].Text
}

func TestListTools(t *testing.T) {
	h := newHarness(t)
	resp := h.rpc("tools/list", map[string]any{})
	require.Nil(t, resp.Error)

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"get_project", "patch_sound_volume", "patch_sound_looped", "get_volume_warning"}, names)
}

func TestGetProjectTool(t *testing.T) {
	h := newHarness(t)

	var project domain.Project
	require.NoError(t, json.Unmarshal([]byte(h.text(h.call("get_project", nil))), &project))
	assert.Equal(t, ports.ContractProject(), project)
}

func TestPatchTools(t *testing.T) {
	h := newHarness(t)

	resp := h.call("patch_sound_volume", map[string]any{"scene_id": "stage-1", "sound_id": "bgm", "volume": 33})
	assert.False(t, resp.Result.IsError)
	assert.JSONEq(t, `{"matched":true}`, h.text(resp))

	resp = h.call("patch_sound_looped", map[string]any{"scene_id": "stage-1", "sound_id": "jump", "looped": true})
	assert.False(t, resp.Result.IsError)
	assert.JSONEq(t, `{"matched":true}`, h.text(resp))

	resp = h.call("patch_sound_looped", map[string]any{"scene_id": "menu", "sound_id": "jump", "looped": true})
	assert.JSONEq(t, `{"matched":false}`, h.text(resp))

	project, err := h.app.GetProject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 33, project.Scenes[0].Sounds[0].Volume)
	assert.True(t, project.Scenes[0].Sounds[1].Looped)
	assert.Equal(t, 3, h.store.Saves())
}

func TestPatchVolumeTool_OutOfRange(t *testing.T) {
	h := newHarness(t)

	resp := h.call("patch_sound_volume", map[string]any{"scene_id": "stage-1", "sound_id": "bgm", "volume": 250})
	assert.True(t, resp.Result.IsError)
	assert.Contains(t, h.text(resp), "volume")
	assert.Zero(t, h.store.Saves())
}

func TestPatchTool_PersistenceFailure(t *testing.T) {
	h := newHarness(t)
	h.store.FailSaves(errors.New("disk full"))

	resp := h.call("patch_sound_looped", map[string]any{"scene_id": "stage-1", "sound_id": "bgm", "looped": false})
	assert.True(t, resp.Result.IsError)
	assert.Contains(t, h.text(resp), "disk full")

	resp = h.call("get_project", nil)
	assert.True(t, resp.Result.IsError)
}

func TestGetVolumeWarningTool(t *testing.T) {
	h := newHarness(t)
	assert.JSONEq(t, `{"is_full":true}`, h.text(h.call("get_volume_warning", nil)))
}

func TestProjectResource(t *testing.T) {
	h := newHarness(t)
	resp := h.rpc("resources/read", map[string]any{"uri": ProjectURI})
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Contents, 1)

	var project domain.Project
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Contents[0].Text), &project))
	assert.Equal(t, ports.ContractProject().DisplayName, project.DisplayName)
	assert.Equal(t, ProjectURI, resp.Result.Contents[0].URI, fmt.Sprintf("%+v", resp.Result))
}

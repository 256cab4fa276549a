package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// PersonResponse — персона из API.
type PersonResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Anchors     map[string]float64 `json:"anchors,omitempty"`
	Quirks      []string           `json:"quirks,omitempty"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

// ProfileResponse — вычисленный профиль из API.
type ProfileResponse struct {
	PersonID   string             `json:"person_id"`
	Traits     map[string]float64 `json:"traits"`
	Skills     map[string]float64 `json:"skills"`
	Experience map[string]float64 `json:"experience"`
	Stacks     map[string]float64 `json:"stacks"`
	Quirks     []string           `json:"quirks,omitempty"`
	Phrases    []string           `json:"phrases,omitempty"`
	ComputedAt string             `json:"computed_at"`
}

// ComputeResponse — результат пересчёта профиля.
type ComputeResponse struct {
	Profile *ProfileResponse `json:"profile"`
	Policy  string           `json:"policy"`
	Trace   json.RawMessage  `json:"trace,omitempty"`
}

// MemoryResponse — воспоминание из API.
type MemoryResponse struct {
	ID             string  `json:"id"`
	PersonID       string  `json:"person_id"`
	Kind           string  `json:"kind"`
	Content        string  `json:"content"`
	Relevance      float64 `json:"relevance"`
	HalfLifeDays   float64 `json:"half_life_days"`
	Pinned         bool    `json:"pinned"`
	CreatedAt      string  `json:"created_at"`
	LastAccessedAt string  `json:"last_accessed_at"`
}

// WorkspaceResponse — workspace из API.
type WorkspaceResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	RepoURL   string `json:"repo_url,omitempty"`
	PersonID  string `json:"person_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// WorkspaceStatusResponse — git-состояние workspace из API.
type WorkspaceStatusResponse struct {
	Branch string `json:"branch"`
	Head   string `json:"head"`
	Dirty  bool   `json:"dirty"`
}

// ResolveResponse — разрешённые context-URI из API.
type ResolveResponse struct {
	Items []struct {
		URI     string `json:"uri"`
		Kind    string `json:"kind"`
		Content string `json:"content"`
	} `json:"items"`
	Errors []string `json:"errors,omitempty"`
}

// --- Request types ---

// CreatePersonRequest — создание персоны.
type CreatePersonRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Anchors     map[string]float64 `json:"anchors,omitempty"`
	Quirks      []string           `json:"quirks,omitempty"`
}

// UpdatePersonRequest — обновление персоны.
type UpdatePersonRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Anchors     *map[string]float64 `json:"anchors,omitempty"`
	Quirks      *[]string           `json:"quirks,omitempty"`
}

// CreateMemoryRequest — создание воспоминания.
type CreateMemoryRequest struct {
	Kind         string  `json:"kind"`
	Content      string  `json:"content"`
	HalfLifeDays float64 `json:"half_life_days,omitempty"`
	Pinned       bool    `json:"pinned,omitempty"`
}

// CreateWorkspaceRequest — регистрация workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Persona API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Persons ---

// ListPersons возвращает все персоны.
func (c *Client) ListPersons() ([]PersonResponse, error) {
	var persons []PersonResponse
	err := c.list("/api/v1/persons", &persons)
	return persons, err
}

// CreatePerson создаёт новую персону.
func (c *Client) CreatePerson(req CreatePersonRequest) (*PersonResponse, error) {
	var person PersonResponse
	err := c.post("/api/v1/persons", req, &person)
	return &person, err
}

// GetPerson возвращает персону по ID.
func (c *Client) GetPerson(id string) (*PersonResponse, error) {
	var person PersonResponse
	err := c.get("/api/v1/persons/"+id, &person)
	return &person, err
}

// UpdatePerson обновляет персону.
func (c *Client) UpdatePerson(id string, req UpdatePersonRequest) (*PersonResponse, error) {
	var person PersonResponse
	err := c.put("/api/v1/persons/"+id, req, &person)
	return &person, err
}

// DeletePerson удаляет персону.
func (c *Client) DeletePerson(id string) error {
	return c.delete("/api/v1/persons/" + id)
}

// ComputePerson пересчитывает профиль персоны.
func (c *Client) ComputePerson(id, policy string) (*ComputeResponse, error) {
	path := "/api/v1/persons/" + id + "/compute"
	if policy != "" {
		path += "?policy=" + policy
	}

	var result ComputeResponse
	err := c.post(path, nil, &result)
	return &result, err
}

// GetProfile возвращает последний вычисленный профиль.
func (c *Client) GetProfile(id string) (*ProfileResponse, error) {
	var profile ProfileResponse
	err := c.get("/api/v1/persons/"+id+"/profile", &profile)
	return &profile, err
}

// --- Memories ---

// ListMemories возвращает воспоминания персоны.
func (c *Client) ListMemories(personID string) ([]MemoryResponse, error) {
	var memories []MemoryResponse
	err := c.list("/api/v1/persons/"+personID+"/memories", &memories)
	return memories, err
}

// CreateMemory создаёт воспоминание.
func (c *Client) CreateMemory(personID string, req CreateMemoryRequest) (*MemoryResponse, error) {
	var m MemoryResponse
	err := c.post("/api/v1/persons/"+personID+"/memories", req, &m)
	return &m, err
}

// TouchMemory отмечает обращение к воспоминанию.
func (c *Client) TouchMemory(id string) (*MemoryResponse, error) {
	var m MemoryResponse
	err := c.post("/api/v1/memories/"+id+"/touch", nil, &m)
	return &m, err
}

// DeleteMemory удаляет воспоминание.
func (c *Client) DeleteMemory(id string) error {
	return c.delete("/api/v1/memories/" + id)
}

// --- Workspaces ---

// ListWorkspaces возвращает все workspaces.
func (c *Client) ListWorkspaces() ([]WorkspaceResponse, error) {
	var workspaces []WorkspaceResponse
	err := c.list("/api/v1/workspaces", &workspaces)
	return workspaces, err
}

// CreateWorkspace регистрирует workspace.
func (c *Client) CreateWorkspace(req CreateWorkspaceRequest) (*WorkspaceResponse, error) {
	var ws WorkspaceResponse
	err := c.post("/api/v1/workspaces", req, &ws)
	return &ws, err
}

// GetWorkspaceStatus возвращает git-состояние workspace.
func (c *Client) GetWorkspaceStatus(id string) (*WorkspaceStatusResponse, error) {
	var status WorkspaceStatusResponse
	err := c.get("/api/v1/workspaces/"+id+"/status", &status)
	return &status, err
}

// BindWorkspace привязывает персону к workspace.
func (c *Client) BindWorkspace(id, personID string) (*WorkspaceResponse, error) {
	body := map[string]string{"person_id": personID}
	var ws WorkspaceResponse
	err := c.put("/api/v1/workspaces/"+id+"/person", body, &ws)
	return &ws, err
}

// MaterializeWorkspace перегенерирует PERSONA.md в workspace.
func (c *Client) MaterializeWorkspace(id string) error {
	return c.post("/api/v1/workspaces/"+id+"/materialize", nil, nil)
}

// DeleteWorkspace снимает workspace с учёта.
func (c *Client) DeleteWorkspace(id string) error {
	return c.delete("/api/v1/workspaces/" + id)
}

// --- Context resolution ---

// Resolve разрешает список context-URI.
func (c *Client) Resolve(uris []string) (*ResolveResponse, error) {
	body := map[string][]string{"uris": uris}
	var result ResolveResponse
	err := c.post("/api/v1/resolve", body, &result)
	return &result, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, result any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}

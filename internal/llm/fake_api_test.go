// ABOUTME: In-memory AssistantAPI used by the manager tests
// ABOUTME: Records calls and serves canned assistants, stores, runs, and messages
package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

var errAPI = errors.New("api unavailable")

type fakeAPI struct {
	mu sync.Mutex

	assistants map[string]openai.Assistant
	stores     map[string]openai.VectorStore
	storeFiles map[string][]openai.VectorStoreFile

	// runStatuses is served in order by RetrieveRun; the last one repeats
	runStatuses []openai.RunStatus
	runError    *openai.RunLastError
	messages    []openai.Message

	failCreateFile map[string]bool
	failAttach     bool
	failCreate     bool
	notDeleted     bool

	nextID          int
	createdRequests []openai.AssistantRequest
	modifyRequests  []openai.AssistantRequest
	messageRequests []openai.MessageRequest
	runRequests     []openai.RunRequest
	listRunIDs      []string
	uploadedNames   []string
	retrieveRuns    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		assistants:     map[string]openai.Assistant{},
		stores:         map[string]openai.VectorStore{},
		storeFiles:     map[string][]openai.VectorStoreFile{},
		failCreateFile: map[string]bool{},
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s_%d", prefix, f.nextID)
}

func (f *fakeAPI) CreateAssistant(_ context.Context, req openai.AssistantRequest) (openai.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return openai.Assistant{}, errAPI
	}
	f.createdRequests = append(f.createdRequests, req)
	a := openai.Assistant{
		ID:           f.id("asst"),
		Name:         req.Name,
		Description:  req.Description,
		Model:        req.Model,
		Instructions: req.Instructions,
		Tools:        req.Tools,
	}
	f.assistants[a.ID] = a
	return a, nil
}

func (f *fakeAPI) RetrieveAssistant(_ context.Context, id string) (openai.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assistants[id]
	if !ok {
		return openai.Assistant{}, fmt.Errorf("no assistant %s", id)
	}
	return a, nil
}

func (f *fakeAPI) ModifyAssistant(_ context.Context, id string, req openai.AssistantRequest) (openai.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modifyRequests = append(f.modifyRequests, req)
	a, ok := f.assistants[id]
	if !ok {
		return openai.Assistant{}, fmt.Errorf("no assistant %s", id)
	}
	if req.Tools != nil {
		a.Tools = req.Tools
	}
	if req.ToolResources != nil {
		a.ToolResources = req.ToolResources
	}
	f.assistants[id] = a
	return a, nil
}

func (f *fakeAPI) ListAssistants(_ context.Context, limit *int, _ *string, _ *string, _ *string) (openai.AssistantsList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list openai.AssistantsList
	for _, a := range f.assistants {
		if limit != nil && len(list.Assistants) >= *limit {
			list.HasMore = true
			break
		}
		list.Assistants = append(list.Assistants, a)
	}
	return list, nil
}

func (f *fakeAPI) DeleteAssistant(_ context.Context, id string) (openai.AssistantDeleteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assistants[id]; !ok {
		return openai.AssistantDeleteResponse{}, fmt.Errorf("no assistant %s", id)
	}
	if f.notDeleted {
		return openai.AssistantDeleteResponse{ID: id}, nil
	}
	delete(f.assistants, id)
	return openai.AssistantDeleteResponse{ID: id, Deleted: true}, nil
}

func (f *fakeAPI) CreateFile(_ context.Context, req openai.FileRequest) (openai.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateFile[req.FileName] {
		return openai.File{}, errAPI
	}
	f.uploadedNames = append(f.uploadedNames, req.FileName)
	return openai.File{ID: f.id("file"), FileName: req.FileName, Purpose: req.Purpose}, nil
}

func (f *fakeAPI) CreateVectorStore(_ context.Context, req openai.VectorStoreRequest) (openai.VectorStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := openai.VectorStore{ID: f.id("vs"), Name: req.Name, Metadata: req.Metadata}
	f.stores[s.ID] = s
	return s, nil
}

func (f *fakeAPI) ListVectorStores(_ context.Context, _ openai.Pagination) (openai.VectorStoresList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list openai.VectorStoresList
	for _, s := range f.stores {
		list.VectorStores = append(list.VectorStores, s)
	}
	return list, nil
}

func (f *fakeAPI) DeleteVectorStore(_ context.Context, id string) (openai.VectorStoreDeleteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stores[id]; !ok {
		return openai.VectorStoreDeleteResponse{}, fmt.Errorf("no store %s", id)
	}
	delete(f.stores, id)
	return openai.VectorStoreDeleteResponse{ID: id, Deleted: true}, nil
}

func (f *fakeAPI) CreateVectorStoreFile(_ context.Context, storeID string, req openai.VectorStoreFileRequest) (openai.VectorStoreFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAttach {
		return openai.VectorStoreFile{}, errAPI
	}
	vf := openai.VectorStoreFile{ID: req.FileID, VectorStoreID: storeID, Status: "completed"}
	f.storeFiles[storeID] = append(f.storeFiles[storeID], vf)
	return vf, nil
}

func (f *fakeAPI) ListVectorStoreFiles(_ context.Context, storeID string, _ openai.Pagination) (openai.VectorStoreFilesList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return openai.VectorStoreFilesList{VectorStoreFiles: f.storeFiles[storeID]}, nil
}

func (f *fakeAPI) CreateThread(_ context.Context, _ openai.ThreadRequest) (openai.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return openai.Thread{ID: f.id("thread")}, nil
}

func (f *fakeAPI) CreateMessage(_ context.Context, threadID string, req openai.MessageRequest) (openai.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messageRequests = append(f.messageRequests, req)
	return openai.Message{ID: f.id("msg"), ThreadID: threadID, Role: req.Role}, nil
}

func (f *fakeAPI) CreateRun(_ context.Context, threadID string, req openai.RunRequest) (openai.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runRequests = append(f.runRequests, req)
	return openai.Run{ID: "run_1", ThreadID: threadID, AssistantID: req.AssistantID, Status: openai.RunStatusQueued}, nil
}

func (f *fakeAPI) RetrieveRun(_ context.Context, threadID string, runID string) (openai.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := openai.RunStatusCompleted
	if n := len(f.runStatuses); n > 0 {
		i := f.retrieveRuns
		if i >= n {
			i = n - 1
		}
		status = f.runStatuses[i]
	}
	f.retrieveRuns++
	return openai.Run{ID: runID, ThreadID: threadID, Status: status, LastError: f.runError}, nil
}

func (f *fakeAPI) ListMessage(_ context.Context, _ string, _ *int, _ *string, _ *string, _ *string, runID *string) (openai.MessagesList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if runID != nil {
		f.listRunIDs = append(f.listRunIDs, *runID)
	}
	return openai.MessagesList{Messages: f.messages}, nil
}

func assistantMessage(texts ...string) openai.Message {
	msg := openai.Message{Role: string(openai.ThreadMessageRoleAssistant)}
	for _, text := range texts {
		msg.Content = append(msg.Content, openai.MessageContent{
			Type: "text",
			Text: &openai.MessageText{Value: text},
		})
	}
	return msg
}

package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/model"
)

const (
	testPackage  = "0xpkg"
	testRegistry = "0x1e6"
	testAdmin    = "0xad"
	testUser     = "0xbeef"
)

// fakeLedger 内存中的链上状态
type fakeLedger struct {
	mu sync.Mutex

	registryMissing bool
	getObjectErr    error
	pages           [][]string
	objects         map[string]ledger.ObjectResponse

	buildErr  error
	buildErrs []error
	splitErr  error
	dryRun    *ledger.DryRunResult
	dryErr    error

	built          []*ledger.Transaction
	splits         [][]uint64
	dryRunCalls    int
	fieldCalls     int
	multiGetCalls  int
	registryCalls  int
	requestedPages []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		objects: make(map[string]ledger.ObjectResponse),
		dryRun:  &ledger.DryRunResult{Effects: ledger.TransactionEffects{Status: ledger.ExecutionStatus{Status: "success"}}},
	}
}

// addChildren 以一页的形式挂载注册表子对象
func (f *fakeLedger) addChildren(objs ...ledger.ObjectResponse) {
	ids := make([]string, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.Data.ObjectID)
		f.objects[o.Data.ObjectID] = o
	}
	f.pages = append(f.pages, ids)
}

func (f *fakeLedger) GetObject(_ context.Context, id string) (*ledger.ObjectResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registryCalls++
	if f.getObjectErr != nil {
		return nil, f.getObjectErr
	}
	if f.registryMissing {
		return &ledger.ObjectResponse{Error: &ledger.ObjectError{Code: "notExists", ObjectID: id}}, nil
	}
	return &ledger.ObjectResponse{Data: &ledger.ObjectData{ObjectID: id}}, nil
}

func (f *fakeLedger) GetDynamicFields(_ context.Context, _ string, cursor *string) (*ledger.DynamicFieldPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fieldCalls++

	idx := 0
	if cursor != nil {
		f.requestedPages = append(f.requestedPages, *cursor)
		n, err := strconv.Atoi(*cursor)
		if err != nil {
			return nil, errors.New("bad cursor")
		}
		idx = n
	}
	if idx >= len(f.pages) {
		return &ledger.DynamicFieldPage{}, nil
	}

	page := &ledger.DynamicFieldPage{}
	for _, id := range f.pages[idx] {
		page.Data = append(page.Data, ledger.DynamicFieldInfo{ObjectID: id})
	}
	if idx+1 < len(f.pages) {
		next := strconv.Itoa(idx + 1)
		page.NextCursor = &next
		page.HasNextPage = true
	}
	return page, nil
}

func (f *fakeLedger) MultiGetObjects(_ context.Context, ids []string) ([]ledger.ObjectResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.multiGetCalls++
	out := make([]ledger.ObjectResponse, 0, len(ids))
	for _, id := range ids {
		if o, ok := f.objects[id]; ok {
			out = append(out, o)
			continue
		}
		out = append(out, ledger.ObjectResponse{Error: &ledger.ObjectError{Code: "notExists", ObjectID: id}})
	}
	return out, nil
}

func (f *fakeLedger) BuildTransaction(_ context.Context, tx *ledger.Transaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.built = append(f.built, tx)
	if len(f.buildErrs) > 0 {
		err := f.buildErrs[0]
		f.buildErrs = f.buildErrs[1:]
		if err != nil {
			return "", err
		}
	}
	if f.buildErr != nil {
		return "", f.buildErr
	}
	return "dHg=", nil
}

func (f *fakeLedger) SplitPayments(_ context.Context, _ string, amounts []uint64, _ uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.splits = append(f.splits, amounts)
	if f.splitErr != nil {
		return "", f.splitErr
	}
	return "c3BsaXQ=", nil
}

func (f *fakeLedger) DryRun(context.Context, string) (*ledger.DryRunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dryRunCalls++
	return f.dryRun, f.dryErr
}

// fakeWallet 记录提交的钱包
type fakeWallet struct {
	address   string
	err       error
	submitted []string
}

func (w *fakeWallet) Address() string { return w.address }

func (w *fakeWallet) SignAndSubmit(_ context.Context, txBytes string) (*ledger.TransactionResponse, error) {
	w.submitted = append(w.submitted, txBytes)
	if w.err != nil {
		return nil, w.err
	}
	return &ledger.TransactionResponse{Digest: fmt.Sprintf("digest-%d", len(w.submitted))}, nil
}

type campaignFixture struct {
	id         string
	name       string
	target     uint64
	donated    uint64
	released   uint64
	admin      string
	milestones []model.Milestone
}

func (c campaignFixture) fields() map[string]interface{} {
	ms := make([]map[string]interface{}, 0, len(c.milestones))
	for _, m := range c.milestones {
		ms = append(ms, map[string]interface{}{
			"type": testPackage + "::sui_care::Milestone",
			"fields": map[string]interface{}{
				"description": m.Description,
				"percentage":  strconv.Itoa(m.Percentage),
				"status":      int(m.Status),
			},
		})
	}
	name := c.name
	if name == "" {
		name = "Clean water"
	}
	admin := c.admin
	if admin == "" {
		admin = testAdmin
	}
	return map[string]interface{}{
		"id":             map[string]string{"id": c.id},
		"name":           name,
		"description":    "Wells for villages",
		"target_amount":  strconv.FormatUint(c.target, 10),
		"donated_amount": strconv.FormatUint(c.donated, 10),
		"total_released": strconv.FormatUint(c.released, 10),
		"recipient":      "0xfeed",
		"admin":          admin,
		"escrow":         strconv.FormatUint(c.donated-c.released, 10),
		"milestones":     ms,
	}
}

// dynamicFieldObject 包装为注册表动态字段对象
func dynamicFieldObject(fieldID string, fields map[string]interface{}) ledger.ObjectResponse {
	raw, err := json.Marshal(map[string]interface{}{
		"id":   map[string]string{"id": fieldID},
		"name": "0x0",
		"value": map[string]interface{}{
			"type":   testPackage + "::sui_care::Campaign",
			"fields": fields,
		},
	})
	if err != nil {
		panic(err)
	}
	return ledger.ObjectResponse{Data: &ledger.ObjectData{
		ObjectID: fieldID,
		Content:  &ledger.ParsedContent{DataType: "moveObject", Fields: raw},
	}}
}

func newTestStore(f *fakeLedger) *CampaignLogic {
	return NewCampaignLogic(f, testRegistry, "testnet")
}

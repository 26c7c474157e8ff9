package manager

import "context"

// StartChat puts the model's pipeline into multi-turn session mode. The
// toggle is forwarded to the engine as-is; redundant starts are the engine's
// business (with OpenVINO GenAI a second start restarts the session). The
// instance's generation slot is held for the duration so the toggle never
// races an in-flight generate call.
func (m *Manager) StartChat(ctx context.Context, model string) error {
	inst, release, err := m.acquire(ctx, model)
	if err != nil {
		return err
	}
	defer release()
	inst.pipeline.StartChat()
	m.mu.Lock()
	inst.ChatActive = true
	m.mu.Unlock()
	return nil
}

// FinishChat leaves multi-turn session mode, dropping accumulated context.
// Forwarded without guards, matching StartChat.
func (m *Manager) FinishChat(ctx context.Context, model string) error {
	inst, release, err := m.acquire(ctx, model)
	if err != nil {
		return err
	}
	defer release()
	inst.pipeline.FinishChat()
	m.mu.Lock()
	inst.ChatActive = false
	m.mu.Unlock()
	return nil
}

// CountTokens encodes text with the model's tokenizer and returns the token
// count. The tokenizer handle is derived per call and released immediately;
// the bridge does not cache it.
func (m *Manager) CountTokens(ctx context.Context, model, text string) (uint64, error) {
	inst, release, err := m.acquire(ctx, model)
	if err != nil {
		return 0, err
	}
	defer release()
	tok := inst.pipeline.GetTokenizer()
	defer tok.Close()
	return tok.CountTokens(text), nil
}

// acquire resolves the model, ensures its instance, and takes the
// generation slot.
func (m *Manager) acquire(ctx context.Context, model string) (*Instance, func(), error) {
	modelID, err := m.resolveModelID(model)
	if err != nil {
		return nil, nil, err
	}
	inst, err := m.ensureInstance(modelID)
	if err != nil {
		return nil, nil, err
	}
	release, err := m.beginGeneration(ctx, inst)
	if err != nil {
		return nil, nil, err
	}
	return inst, release, nil
}

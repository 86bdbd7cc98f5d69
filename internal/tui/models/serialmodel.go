package models

import (
	"errors"
	"sync"
	"time"

	serialport "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

type ConnectionStatusMsg struct {
	Connected bool
	Error     error
}

// LinkLostMsg reports that the session closed itself under the UI
type LinkLostMsg struct {
	Err error
}

// TxResultMsg carries the outcome of a send started with SendCmd
type TxResultMsg struct {
	ID  int
	Err error
}

// SerialModel is the state shared by the listen and connect UIs. It owns
// the session and turns its callbacks into tea messages.
type SerialModel struct {
	session  *serialport.Session
	portName string
	config   serialport.Config

	connected bool
	ready     bool
	err       error
	rawData   []components.DataReceivedMsg
	nextID    int

	mu        sync.RWMutex
	inputMode InputMode
}

func NewSerialModel(session *serialport.Session, portName string, config serialport.Config) *SerialModel {
	return &SerialModel{
		session:   session,
		portName:  portName,
		config:    config,
		inputMode: InputModeNormal,
	}
}

// Attach routes session callbacks into send, normally tea.Program.Send
func (m *SerialModel) Attach(send func(tea.Msg)) {
	m.session.SetDataReceivedCallback(func(data []byte) {
		send(components.DataReceivedMsg{
			Timestamp: time.Now(),
			Data:      data,
		})
	})
	m.session.SetLinkLostCallback(func(err error) {
		send(LinkLostMsg{Err: err})
	})
}

// OpenCmd opens the port off the UI goroutine
func (m *SerialModel) OpenCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.session.Open(m.portName, m.config)
		return ConnectionStatusMsg{Connected: err == nil, Error: err}
	}
}

// SendCmd writes data and reports back with the entry id
func (m *SerialModel) SendCmd(id int, data []byte) tea.Cmd {
	return func() tea.Msg {
		return TxResultMsg{ID: id, Err: m.session.Send(data)}
	}
}

func (m *SerialModel) Session() *serialport.Session {
	return m.session
}

func (m *SerialModel) PortName() string {
	return m.portName
}

func (m *SerialModel) Config() serialport.Config {
	return m.config
}

func (m *SerialModel) IsConnected() bool {
	return m.connected
}

func (m *SerialModel) SetConnected(connected bool) {
	m.connected = connected
}

func (m *SerialModel) GetError() error {
	return m.err
}

func (m *SerialModel) SetError(err error) {
	m.err = err
}

func (m *SerialModel) IsReady() bool {
	return m.ready
}

func (m *SerialModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *SerialModel) GetRawData() []components.DataReceivedMsg {
	return m.rawData
}

func (m *SerialModel) AddRawData(msg components.DataReceivedMsg) {
	m.rawData = append(m.rawData, msg)
	if len(m.rawData) > components.MaxLines {
		m.rawData = m.rawData[len(m.rawData)-components.MaxLines:]
	}
}

// AddTX records an outbound entry as pending and returns it with its id
func (m *SerialModel) AddTX(display []byte) components.DataReceivedMsg {
	m.nextID++
	msg := components.DataReceivedMsg{
		ID:        m.nextID,
		Timestamp: time.Now(),
		Data:      display,
		IsTX:      true,
		Status:    components.TxPending,
	}
	m.AddRawData(msg)
	return msg
}

// ResolveTX updates the status of the entry with id from a send result
func (m *SerialModel) ResolveTX(id int, err error) bool {
	status := components.TxWritten
	switch {
	case errors.Is(err, serialport.ErrWriteIncomplete):
		status = components.TxIncomplete
	case err != nil:
		status = components.TxError
	}

	for i := len(m.rawData) - 1; i >= 0; i-- {
		if m.rawData[i].IsTX && m.rawData[i].ID == id {
			m.rawData[i].Status = status
			return true
		}
	}
	return false
}

func (m *SerialModel) ClearData() {
	m.rawData = nil
}

func (m *SerialModel) GetInputMode() InputMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode
}

func (m *SerialModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *SerialModel) IsInInsertMode() bool {
	return m.GetInputMode() == InputModeInsert
}

// Cleanup detaches the UI and closes the port
func (m *SerialModel) Cleanup() error {
	m.session.SetDataReceivedCallback(nil)
	m.session.SetLinkLostCallback(nil)
	m.connected = false
	return m.session.Close()
}

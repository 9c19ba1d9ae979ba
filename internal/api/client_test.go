package api

import (
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muurk/inels/internal/resources"
)

// Mock controller responses
const (
	mockPingResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><boolean>1</boolean></value></param></params></methodResponse>`

	mockGarageResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
<value><struct>
<member><name>type</name><value><string>door</string></value></member>
<member><name>inels</name><value><string>Doors_Garage</string></value></member>
<member><name>name</name><value><string>Doors</string></value></member>
<member><name>read_only</name><value><boolean>0</boolean></value></member>
</struct></value>
<value><struct>
<member><name>type</name><value><string>light</string></value></member>
<member><name>inels</name><value><string>Light_Garage</string></value></member>
<member><name>name</name><value><string>Light</string></value></member>
<member><name>read_only</name><value><boolean>0</boolean></value></member>
</struct></value>
<value><struct>
<member><name>type</name><value><string>switch</string></value></member>
<member><name>inels</name><value><string>Switch_Garage</string></value></member>
<member><name>name</name><value><string>Switch</string></value></member>
<member><name>read_only</name><value><boolean>0</boolean></value></member>
</struct></value>
<value><struct>
<member><name>type</name><value><string>temp</string></value></member>
<member><name>inels</name><value><string>Temp_Garage</string></value></member>
<member><name>name</name><value><string>Temperature</string></value></member>
<member><name>read_only</name><value><boolean>1</boolean></value></member>
</struct></value>
</data></array></value></param></params></methodResponse>`

	mockInvalidDeviceResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
<value><struct>
<member><name>type</name><value><string>door</string></value></member>
<member><name>name</name><value><string>Doors</string></value></member>
<member><name>read_only</name><value><boolean>0</boolean></value></member>
</struct></value>
</data></array></value></param></params></methodResponse>`

	mockUnnamedDeviceResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
<value><struct>
<member><name>type</name><value><string>switch</string></value></member>
<member><name>inels</name><value><string>Switch_Garage</string></value></member>
<member><name>name</name><value><string></string></value></member>
<member><name>read_only</name><value><boolean>0</boolean></value></member>
</struct></value>
</data></array></value></param></params></methodResponse>`

	mockReadDoorResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>Doors_Garage</name><value><int>0</int></value></member>
</struct></value></param></params></methodResponse>`

	mockReadTempResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>Temp_Garage</name><value><double>21.5</double></value></member>
</struct></value></param></params></methodResponse>`

	mockWriteResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><boolean>1</boolean></value></param></params></methodResponse>`

	mockFaultResponse = `<?xml version="1.0"?>
<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>4</int></value></member>
<member><name>faultString</name><value><string>Unknown device Foo_Garage</string></value></member>
</struct></value></fault></methodResponse>`
)

type methodCall struct {
	MethodName string `xml:"methodName"`
}

// fakeController records the calls it receives and answers from a table
// keyed by method name
type fakeController struct {
	mu        sync.Mutex
	responses map[string]string
	calls     []string
	bodies    []string
}

func newFakeController(responses map[string]string) (*fakeController, *httptest.Server) {
	fc := &fakeController{responses: responses}
	return fc, httptest.NewServer(fc)
}

func (fc *fakeController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var call methodCall
	if err := xml.Unmarshal(body, &call); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	fc.mu.Lock()
	fc.calls = append(fc.calls, call.MethodName)
	fc.bodies = append(fc.bodies, string(body))
	resp, ok := fc.responses[call.MethodName]
	fc.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(resp))
}

func (fc *fakeController) lastBody() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if len(fc.bodies) == 0 {
		return ""
	}
	return fc.bodies[len(fc.bodies)-1]
}

func (fc *fakeController) callCount(method string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	n := 0
	for _, c := range fc.calls {
		if c == method {
			n++
		}
	}
	return n
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		host    string
		port    int
		version string
		want    string
	}{
		{"192.168.1.50", 8001, "", "http://192.168.1.50:8001"},
		{"http://bus.inels.local", 8001, "v1", "http://bus.inels.local:8001/v1"},
		{"https://plc/", 443, "/rpc/", "https://plc:443/rpc"},
	}

	for _, tt := range tests {
		client := NewClient(tt.host, tt.port, tt.version)
		if client.BaseURL != tt.want {
			t.Errorf("NewClient(%q, %d, %q).BaseURL = %s, want %s", tt.host, tt.port, tt.version, client.BaseURL, tt.want)
		}
		if client.HTTPClient == nil {
			t.Error("HTTPClient should not be nil")
		}
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("192.168.1.50", DefaultPort, "")
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestPing_Success(t *testing.T) {
	fc, server := newFakeController(map[string]string{MethodPing: mockPingResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	ok, err := client.Ping()

	if err != nil {
		t.Fatalf("Ping() error = %v, want nil", err)
	}
	if !ok {
		t.Error("Ping() = false, want true")
	}
	if fc.callCount(MethodPing) != 1 {
		t.Errorf("ping called %d times, want 1", fc.callCount(MethodPing))
	}
}

func TestPing_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	ok, err := client.Ping()

	if err == nil {
		t.Fatal("Ping() should return error for HTTP 500")
	}
	if ok {
		t.Error("Ping() should report false on error")
	}
	if !IsHTTPError(err) {
		t.Errorf("Ping() error should be HTTP error, got %T: %v", err, err)
	}
}

func TestPing_NetworkFailure(t *testing.T) {
	client := NewClient("192.0.2.1", 80, "") // TEST-NET-1 (guaranteed unreachable)
	client.SetTimeout(100 * time.Millisecond)

	_, err := client.Ping()
	if err == nil {
		t.Fatal("Ping() should return error for network failure")
	}
	if !IsNetworkError(err) {
		t.Errorf("Ping() error should be network error, got %T: %v", err, err)
	}
}

func TestGetRoomDevicesRaw_Success(t *testing.T) {
	fc, server := newFakeController(map[string]string{MethodGetRoomDevices: mockGarageResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	devices, err := client.GetRoomDevicesRaw("garage")
	if err != nil {
		t.Fatalf("GetRoomDevicesRaw() error = %v", err)
	}

	if len(devices) != 4 {
		t.Fatalf("got %d devices, want 4", len(devices))
	}

	want := resources.RawDevice{Type: "door", Inels: "Doors_Garage", Name: "Doors", ReadOnly: false}
	if devices[0] != want {
		t.Errorf("devices[0] = %+v, want %+v", devices[0], want)
	}
	if !devices[3].ReadOnly {
		t.Error("temperature should be read only")
	}

	if !strings.Contains(fc.lastBody(), "garage") {
		t.Errorf("request should carry the room name, got %s", fc.lastBody())
	}
}

func TestGetRoomDevicesRaw_EmptyRoom(t *testing.T) {
	client := NewClientWithURL("http://127.0.0.1:1")
	_, err := client.GetRoomDevicesRaw("")

	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetRoomDevicesRaw_InvalidDescriptor(t *testing.T) {
	_, server := newFakeController(map[string]string{MethodGetRoomDevices: mockInvalidDeviceResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.GetRoomDevicesRaw("garage")

	if err == nil {
		t.Fatal("expected error for descriptor without inels id")
	}
	if !errors.Is(err, resources.ErrInvalidDescriptor) {
		t.Errorf("error should wrap ErrInvalidDescriptor, got %v", err)
	}
	if !IsValidationError(err) {
		t.Errorf("error should be validation error, got %T", err)
	}
}

func TestGetRoomDevicesRaw_EmptyName(t *testing.T) {
	_, server := newFakeController(map[string]string{MethodGetRoomDevices: mockUnnamedDeviceResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	devices, err := client.GetRoomDevicesRaw("garage")
	if err != nil {
		t.Fatalf("GetRoomDevicesRaw() error = %v", err)
	}

	want := resources.RawDevice{Type: "switch", Inels: "Switch_Garage", Name: ""}
	if len(devices) != 1 || devices[0] != want {
		t.Errorf("devices = %+v, want [%+v]", devices, want)
	}
}

func TestGetRoomDevices_ObserveAndSet(t *testing.T) {
	fc, server := newFakeController(map[string]string{
		MethodPing:           mockPingResponse,
		MethodGetRoomDevices: mockGarageResponse,
		MethodRead:           mockReadDoorResponse,
		MethodWrite:          mockWriteResponse,
	})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	list, err := client.GetRoomDevices("garage")
	if err != nil {
		t.Fatalf("GetRoomDevices() error = %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("got %d resources, want 4", len(list))
	}

	door := list[0]
	if door.Title() != "Doors" {
		t.Fatalf("first resource = %s, want Doors", door.Title())
	}
	if door.IsAvailable() {
		t.Error("door should not be available before observe")
	}

	value, err := door.Observe()
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if !value.Equal(resources.IntValue(0)) {
		t.Errorf("Observe() = %s, want 0", value)
	}
	if !strings.Contains(fc.lastBody(), "Doors_Garage") {
		t.Errorf("read request should carry the device id, got %s", fc.lastBody())
	}

	if err := client.SetValue(door, resources.IntValue(1)); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	got, ok := door.Value()
	if !ok || !got.Equal(resources.IntValue(1)) {
		t.Errorf("value after set = %s (set: %v), want 1", got, ok)
	}
	if fc.callCount(MethodWrite) != 1 {
		t.Errorf("write called %d times, want 1", fc.callCount(MethodWrite))
	}
}

func TestGetDevices(t *testing.T) {
	_, server := newFakeController(map[string]string{MethodGetRoomDevices: mockGarageResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	rooms, err := client.GetDevices("garage", "kitchen")
	if err != nil {
		t.Fatalf("GetDevices() error = %v", err)
	}
	if len(rooms) != 2 || len(rooms["garage"]) != 4 || len(rooms["kitchen"]) != 4 {
		t.Errorf("unexpected enumeration result: %v", rooms)
	}
}

func TestRead_Float(t *testing.T) {
	_, server := newFakeController(map[string]string{MethodRead: mockReadTempResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	values, err := client.Read("Temp_Garage")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	v, err := resources.ValueOf(values["Temp_Garage"])
	if err != nil {
		t.Fatalf("ValueOf() error = %v", err)
	}
	if !v.Equal(resources.FloatValue(21.5)) {
		t.Errorf("Temp_Garage = %s (%s), want 21.5", v, v.Kind())
	}
}

func TestRead_NoIDs(t *testing.T) {
	client := NewClientWithURL("http://127.0.0.1:1")
	_, err := client.Read()

	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRead_Fault(t *testing.T) {
	_, server := newFakeController(map[string]string{MethodRead: mockFaultResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.Read("Foo_Garage")

	if err == nil {
		t.Fatal("Read() should return error for fault response")
	}
	if !IsRejectedError(err) {
		t.Fatalf("expected rejected error, got %T: %v", err, err)
	}

	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatal("error should be a DeviceError")
	}
	if devErr.FaultCode != 4 {
		t.Errorf("FaultCode = %d, want 4", devErr.FaultCode)
	}
	if devErr.Method != MethodRead {
		t.Errorf("Method = %s, want %s", devErr.Method, MethodRead)
	}
}

func TestRead_MalformedResponse(t *testing.T) {
	_, server := newFakeController(map[string]string{MethodRead: "not xml at all"})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.Read("Doors_Garage")

	if err == nil {
		t.Fatal("Read() should fail on malformed response")
	}
	if !IsParseError(err) {
		t.Errorf("expected parse error, got %T: %v", err, err)
	}
}

var (
	intParam    = regexp.MustCompile(`<(int|i4|i8)>1</(int|i4|i8)>`)
	doubleParam = regexp.MustCompile(`<double>25(\.0+)?</double>`)
)

func TestWriteValues_Encoding(t *testing.T) {
	fc, server := newFakeController(map[string]string{MethodWrite: mockWriteResponse})
	defer server.Close()

	client := NewClientWithURL(server.URL)

	if err := client.WriteValues("Switch_Garage", resources.IntValue(1)); err != nil {
		t.Fatalf("WriteValues(int) error = %v", err)
	}
	body := fc.lastBody()
	if !strings.Contains(body, "<name>Switch_Garage</name>") {
		t.Errorf("write should key the value by device id, got %s", body)
	}
	if !intParam.MatchString(body) {
		t.Errorf("integer value should be encoded as int, got %s", body)
	}

	if err := client.WriteValues("Switch_Garage", resources.FloatValue(25)); err != nil {
		t.Fatalf("WriteValues(float) error = %v", err)
	}
	if body := fc.lastBody(); !doubleParam.MatchString(body) {
		t.Errorf("float value should be encoded as double, got %s", body)
	}
}

func TestWriteValues_FaultKeepsResourceValue(t *testing.T) {
	_, server := newFakeController(map[string]string{
		MethodGetRoomDevices: mockGarageResponse,
		MethodWrite:          mockFaultResponse,
	})
	defer server.Close()

	client := NewClientWithURL(server.URL)
	list, err := client.GetRoomDevices("garage")
	if err != nil {
		t.Fatalf("GetRoomDevices() error = %v", err)
	}

	sw := list[2]
	err = sw.SetValue(resources.IntValue(1))
	if !IsRejectedError(err) {
		t.Fatalf("SetValue() error should be a rejection, got %v", err)
	}
	if sw.IsAvailable() {
		t.Error("rejected write must not mark the resource available")
	}
}

func TestWriteValues_EmptyID(t *testing.T) {
	client := NewClientWithURL("http://127.0.0.1:1")
	if err := client.WriteValues("", resources.IntValue(1)); !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"havenvoy.game/internal/protocol"
)

func TestSchemas_CompileFromDisk(t *testing.T) {
	for _, name := range []string{"hello", "act", "state"} {
		p := filepath.Join("schemas", name+".schema.json")
		if _, err := jsonschema.Compile(p); err != nil {
			t.Fatalf("compile %s: %v", p, err)
		}
	}
}

func TestSchemas_ValidateSamples(t *testing.T) {
	ok := []struct {
		schema string
		raw    string
	}{
		{protocol.SchemaHello, `{"type":"HELLO","protocol_version":"1.0","captain_name":"Anne","faction":"pirates","seed":7}`},
		{protocol.SchemaHello, `{"type":"HELLO","protocol_version":"1.0","captain_name":"Anne","run_id":"r-20240301-abc"}`},
		{protocol.SchemaAct, `{"type":"ACT","protocol_version":"1.0","id":"a1","action":"BUY","good":"rum","qty":5}`},
		{protocol.SchemaAct, `{"type":"ACT","protocol_version":"1.0","id":"a2","action":"ADVANCE_DAY"}`},
		{protocol.SchemaAct, `{"type":"ACT","protocol_version":"1.0","id":"a3","action":"QUERY","query":"prices","island":"portRoyal"}`},
		{protocol.SchemaState, `{"type":"STATE","protocol_version":"1.0","run_id":"r1","day":3,"faction":"english","gold":900,"supplies":20,"docked":true,"cargo":{"rum":5},"reputation":{"english":25},"ship_class":"brigantine","position":[0,20]}`},
	}
	for _, tc := range ok {
		if err := protocol.Validate(tc.schema, []byte(tc.raw)); err != nil {
			t.Fatalf("%s %s: %v", tc.schema, tc.raw, err)
		}
	}

	bad := []string{
		`{"type":"ACT","protocol_version":"1.0","id":"a1","action":"BUY","good":"rum"}`,
		`{"type":"ACT","protocol_version":"1.0","id":"a1","action":"BUY","good":"rum","qty":0}`,
		`{"type":"ACT","protocol_version":"1.0","id":"a1","action":"TELEPORT"}`,
		`{"type":"ACT","protocol_version":"1.0","id":"a1","action":"DOCK"}`,
		`{"type":"ACT","protocol_version":"1.0","id":"a1","action":"UNDOCK","extra":true}`,
		`{"type":"OBS","protocol_version":"1.0","id":"a1","action":"UNDOCK"}`,
		`{"type":"ACT","protocol_version":"1.0","id":"a1","action":"QUERY","query":"everything"}`,
	}
	for _, raw := range bad {
		if err := protocol.ValidateAct([]byte(raw)); err == nil {
			t.Fatalf("expected %s to fail", raw)
		}
	}
}

func TestActMsgMatchesSchema(t *testing.T) {
	msg := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "x",
		Action:          protocol.ActAcceptContract,
		Contract:        12,
	}
	b, _ := json.Marshal(msg)
	if err := protocol.ValidateAct(b); err != nil {
		t.Fatalf("validate %s: %v", b, err)
	}
	for _, a := range protocol.Actions {
		m := map[string]any{"type": "ACT", "protocol_version": "1.0", "id": "x", "action": a,
			"good": "rum", "qty": 1, "island": "nassau", "cove": "smugglersReef", "contract": 1,
			"questline": "q", "officer": "o", "upgrade": "u", "ship": "s", "kind": "hull",
			"choice": "c", "service": "fence", "query": "stats", "category": "netWorth"}
		b, _ := json.Marshal(m)
		if err := protocol.ValidateAct(b); err != nil {
			t.Fatalf("action %s rejected: %v", a, err)
		}
	}
}

// Package report serializes suites of assertions to a JSON document that can
// be stored, validated, queried and rendered later by the clueassert CLI.
//
// A Recorder is the usual entry point from tests:
//
//	var rec = report.NewRecorder("api", os.Getenv("CLUEASSERT_REPORT"))
//
//	func TestMain(m *testing.M) {
//		code := m.Run()
//		if err := rec.Flush(); err != nil {
//			fmt.Fprintln(os.Stderr, err)
//		}
//		os.Exit(code)
//	}
package report

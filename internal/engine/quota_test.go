package engine

import "testing"

func TestAdmit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		current int
		ceiling int
		want    Admission
	}{
		{"empty", 0, 7, AdmissionAllowed},
		{"one below ceiling", 6, 7, AdmissionAllowed},
		{"at ceiling", 7, 7, AdmissionDenied},
		{"past ceiling", 9, 7, AdmissionDenied},
		{"ceiling of one", 1, 1, AdmissionDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Admit(tc.current, tc.ceiling); got != tc.want {
				t.Fatalf("Admit(%d, %d) = %v, want %v", tc.current, tc.ceiling, got, tc.want)
			}
		})
	}
}

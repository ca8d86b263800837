package postgres

import "testing"

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		password string
		want     string
		wantErr  bool
	}{
		{"scheme only", "postgres://app@db:5432/estatemap?sslmode=disable", "", "pgx5://app@db:5432/estatemap?sslmode=disable", false},
		{"password injected", "postgresql://app@db/estatemap", "s3cret", "pgx5://app:s3cret@db/estatemap", false},
		{"password replaces url password", "postgres://app:old@db/estatemap", "new", "pgx5://app:new@db/estatemap", false},
		{"unsupported scheme", "mysql://app@db/estatemap", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := migrationURL(tt.in, tt.password)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

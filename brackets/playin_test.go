package brackets

import "testing"

func TestPlayInDisabledForPowersOfTwo(t *testing.T) {
	for n := 2; n <= 64; n *= 2 {
		cfg, err := ComputePlayInStructure(n)
		if err != nil {
			t.Fatalf("ComputePlayInStructure(%d) returned error: %v", n, err)
		}
		if cfg.Enabled {
			t.Errorf("expected play-in disabled for %d teams", n)
		}
		if cfg.TargetBracketSize != n {
			t.Errorf("expected bracket size %d, got %d", n, cfg.TargetBracketSize)
		}
	}
}

func TestPlayInInvariants(t *testing.T) {
	for n := 3; n <= 64; n++ {
		if isPowerOfTwo(n) {
			continue
		}
		cfg, err := ComputePlayInStructure(n)
		if err != nil {
			t.Fatalf("ComputePlayInStructure(%d) returned error: %v", n, err)
		}
		if !cfg.Enabled {
			t.Fatalf("expected play-in enabled for %d teams", n)
		}
		if cfg.TargetBracketSize < 2 || !isPowerOfTwo(cfg.TargetBracketSize) {
			t.Errorf("n=%d: target %d is not a power of two", n, cfg.TargetBracketSize)
		}
		if cfg.TargetBracketSize > n || cfg.TargetBracketSize*2 <= n {
			t.Errorf("n=%d: target %d is not the largest power of two <= n", n, cfg.TargetBracketSize)
		}
		if cfg.BlocATeams%2 != 0 {
			t.Errorf("n=%d: bloc A has odd team count %d", n, cfg.BlocATeams)
		}
		if cfg.BlocATeams+cfg.BlocBTeams != n {
			t.Errorf("n=%d: blocs hold %d+%d teams, want %d", n, cfg.BlocATeams, cfg.BlocBTeams, n)
		}
		if cfg.DirectQualifiers+cfg.WildcardsNeeded != cfg.TargetBracketSize {
			t.Errorf("n=%d: direct %d + wildcards %d != target %d",
				n, cfg.DirectQualifiers, cfg.WildcardsNeeded, cfg.TargetBracketSize)
		}
	}
}

func TestPlayInNineTeams(t *testing.T) {
	cfg, err := ComputePlayInStructure(9)
	if err != nil {
		t.Fatalf("ComputePlayInStructure(9) returned error: %v", err)
	}
	if cfg.TargetBracketSize != 8 {
		t.Errorf("target = %d, want 8", cfg.TargetBracketSize)
	}
	if cfg.BlocBTeams != 1 || cfg.BlocATeams != 8 {
		t.Errorf("blocs = A:%d B:%d, want A:8 B:1", cfg.BlocATeams, cfg.BlocBTeams)
	}
	if cfg.QualifiersBlocA != 4 || cfg.QualifiersBlocB != 1 {
		t.Errorf("qualifiers = A:%d B:%d, want A:4 B:1", cfg.QualifiersBlocA, cfg.QualifiersBlocB)
	}
	if cfg.DirectQualifiers != 5 || cfg.WildcardsNeeded != 3 {
		t.Errorf("direct=%d wildcards=%d, want 5 and 3", cfg.DirectQualifiers, cfg.WildcardsNeeded)
	}
}

func TestPlayInFiveTeams(t *testing.T) {
	cfg, err := ComputePlayInStructure(5)
	if err != nil {
		t.Fatalf("ComputePlayInStructure(5) returned error: %v", err)
	}
	if cfg.TargetBracketSize != 4 {
		t.Errorf("target = %d, want 4", cfg.TargetBracketSize)
	}
	if cfg.BlocATeams != 4 || cfg.BlocBTeams != 1 {
		t.Errorf("blocs = A:%d B:%d, want A:4 B:1", cfg.BlocATeams, cfg.BlocBTeams)
	}
	if cfg.DirectQualifiers != 3 || cfg.WildcardsNeeded != 1 {
		t.Errorf("direct=%d wildcards=%d, want 3 and 1", cfg.DirectQualifiers, cfg.WildcardsNeeded)
	}
}

func TestPlayInRejectsTinyFields(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if _, err := ComputePlayInStructure(n); err == nil {
			t.Errorf("expected error for %d teams", n)
		}
	}
}

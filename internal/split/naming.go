package split

import "fmt"

// ChunkFileName is the deterministic artifact name for one chunk:
// {base}_{region}_x{ix}_y{iy}_z{iz}.
func ChunkFileName(baseName, regionName string, index [3]int) string {
	return fmt.Sprintf("%s_%s_x%d_y%d_z%d", baseName, regionName, index[0], index[1], index[2])
}

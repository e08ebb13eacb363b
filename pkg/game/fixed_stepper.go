package game

// FixedStepper 宿主的固定步长节拍
//
// 每帧累积缩放后的时间，累积量达到当前步长时执行一次固定更新。
// 步长随时间缩放等比例变化，因此每个真实秒内的固定更新次数保持不变。
type FixedStepper struct {
	accumulator float64
	maxSteps    int
	totalSteps  uint64
}

// NewFixedStepper 创建固定步长节拍器
// maxSteps 为每帧最多执行的固定更新次数，超出部分的累积时间会被丢弃
func NewFixedStepper(maxSteps int) *FixedStepper {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &FixedStepper{maxSteps: maxSteps}
}

// Advance 累积 scaledDelta 并按 step 执行固定更新
//
// step <= 0（时间暂停）时不执行任何更新，也不累积。
// 返回本帧执行的固定更新次数。
func (fs *FixedStepper) Advance(scaledDelta, step float64, update func(step float64)) int {
	if !(step > 0) {
		return 0
	}
	if scaledDelta > 0 {
		fs.accumulator += scaledDelta
	}

	steps := 0
	for fs.accumulator >= step {
		if steps == fs.maxSteps {
			// 落后太多，丢弃积压避免越追越慢
			fs.accumulator = 0
			break
		}
		update(step)
		fs.accumulator -= step
		steps++
	}
	fs.totalSteps += uint64(steps)
	return steps
}

// Accumulator 返回尚未消耗的累积时间
func (fs *FixedStepper) Accumulator() float64 {
	return fs.accumulator
}

// TotalSteps 返回累计执行的固定更新次数
func (fs *FixedStepper) TotalSteps() uint64 {
	return fs.totalSteps
}

// Reset 清空累积时间（场景切换时调用）
func (fs *FixedStepper) Reset() {
	fs.accumulator = 0
}
